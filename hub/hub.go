// Package hub downloads vocabulary files into a local cache.
//
// Downloads are coordinated across processes with a lock file, written to a
// uniquely named temporary file and atomically renamed into place, so several
// programs can point at the same cache directory safely.
package hub

import (
	"context"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/gomlx/go-subword/internal/files"
)

// DefaultDirCreationPerm is used when creating cache directories.
const DefaultDirCreationPerm = os.FileMode(0755)

// Fetch downloads the file at fileURL into cacheDir and returns the cached
// path. If the file was already fetched it returns immediately.
//
// The returned path can be read but shouldn't be modified, since other
// programs may be sharing the same cache.
func Fetch(ctx context.Context, fileURL, cacheDir string) (string, error) {
	parsed, err := url.Parse(fileURL)
	if err != nil {
		return "", errors.Wrapf(err, "invalid vocabulary URL %q", fileURL)
	}
	name := path.Base(parsed.Path)
	if name == "" || name == "." || name == "/" {
		return "", errors.Errorf("vocabulary URL %q has no file name", fileURL)
	}
	filePath := filepath.Join(cacheDir, name)
	if files.Exists(filePath) {
		return filePath, nil
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(cacheDir, DefaultDirCreationPerm); err != nil {
		return "", errors.Wrapf(err, "failed to create cache directory %q", cacheDir)
	}

	// Lock file to avoid parallel downloads of the same target.
	lockPath := filePath + ".lock"
	var mainErr error
	errLock := execOnFileLock(lockPath, func() {
		if files.Exists(filePath) {
			// Some concurrent other process (or goroutine) already downloaded the file.
			return
		}
		mainErr = download(ctx, fileURL, filePath)
		if mainErr != nil {
			return
		}
		if err := os.Remove(lockPath); err != nil {
			klog.V(1).Infof("error removing lock file %q: %+v", lockPath, err)
		}
	})
	if mainErr != nil {
		return "", mainErr
	}
	if errLock != nil {
		return "", errors.WithMessagef(errLock, "while locking %q to download %q", lockPath, fileURL)
	}
	return filePath, nil
}

// download fetches url to filePath+".<uuid>.downloading" and then atomically
// moves it to filePath.
func download(ctx context.Context, fileURL, filePath string) error {
	tmpPath := filePath + "." + uuid.NewString() + ".downloading"
	tmpFile, err := os.Create(tmpPath)
	if err != nil {
		return errors.Wrapf(err, "creating temporary file for download in %q", tmpPath)
	}
	var tmpFileClosed bool
	defer func() {
		// On any failure, close and remove the unfinished temporary file.
		if !tmpFileClosed {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return errors.Wrapf(err, "building request for %q", fileURL)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "while downloading %q", fileURL)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("downloading %q: unexpected status %s", fileURL, resp.Status)
	}

	n, err := io.Copy(tmpFile, resp.Body)
	if err != nil {
		return errors.Wrapf(err, "while downloading %q to %q", fileURL, tmpPath)
	}
	tmpFileClosed = true
	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrapf(err, "failed to close temporary download file %q", tmpPath)
	}
	if err := os.Rename(tmpPath, filePath); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrapf(err, "failed to move downloaded file %q to %q", tmpPath, filePath)
	}
	klog.V(1).Infof("downloaded %q to %q (%d bytes)", fileURL, filePath, n)
	return nil
}

// execOnFileLock opens the lockPath file (or creates it if it doesn't yet
// exist), locks it, and executes the function. If lockPath is already locked,
// it polls with a 1 to 2 seconds period (randomly) until it acquires the lock.
//
// The lockPath is not removed. It's safe to remove it from the given fn, if
// one knows no new calls with the same lockPath are going to be made.
func execOnFileLock(lockPath string, fn func()) (err error) {
	fileLock := flock.New(lockPath)
	for {
		locked, err := fileLock.TryLock()
		if err != nil {
			return errors.Wrapf(err, "while trying to lock %q", lockPath)
		}
		if locked {
			break
		}
		time.Sleep(time.Millisecond * time.Duration(1000+rand.Intn(1000)))
	}
	defer func() {
		unlockErr := fileLock.Unlock()
		if unlockErr != nil && err == nil {
			err = errors.Wrapf(unlockErr, "unlocking file %q", lockPath)
		}
	}()
	fn()
	return
}
