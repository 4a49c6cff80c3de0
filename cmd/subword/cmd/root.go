// Package cmd provides the CLI commands for subword.
package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/gomlx/go-subword/hub"
	"github.com/gomlx/go-subword/tokenizers/greedy"
)

var (
	// Global flags
	vocabPath  string
	cacheDir   string
	outputJSON bool
	noSpecial  bool
)

// Output styles.
var (
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	tokenStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	idStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("36"))
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "subword",
	Short: "Subword tokenizer - convert text to tokens and ids",
	Long: `subword tokenizes text with a HuggingFace tokenizer.json vocabulary
(Metaspace or WordPiece) compiled into a byte trie.

The vocabulary may be a local file path or an https:// URL; URLs are fetched
once into a local cache directory.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	defaultCache := filepath.Join(os.TempDir(), "go-subword")
	if userCache, err := os.UserCacheDir(); err == nil {
		defaultCache = filepath.Join(userCache, "go-subword")
	}

	rootCmd.PersistentFlags().StringVarP(&vocabPath, "vocab", "v", "", "vocabulary file path or URL (tokenizer.json)")
	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", defaultCache, "cache directory for downloaded vocabularies")
	rootCmd.PersistentFlags().BoolVarP(&outputJSON, "json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noSpecial, "no-special", false, "do not add beginning/end-of-sequence tokens")
	_ = rootCmd.MarkPersistentFlagRequired("vocab")

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(batchCmd)
}

// loadTokenizer resolves the --vocab flag (downloading URLs into the cache)
// and loads the engine.
func loadTokenizer(cmd *cobra.Command, opts ...greedy.Option) (*greedy.Tokenizer, error) {
	path := vocabPath
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		var err error
		path, err = hub.Fetch(cmd.Context(), vocabPath, cacheDir)
		if err != nil {
			return nil, errors.WithMessagef(err, "fetching vocabulary %q", vocabPath)
		}
	}
	return greedy.NewFromFile(path, opts...)
}
