package cmd

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var keepSpecial bool

var decodeCmd = &cobra.Command{
	Use:   "decode [id...]",
	Short: "Reconstruct text from token ids",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tok, err := loadTokenizer(cmd)
		if err != nil {
			return err
		}
		ids := make([]int, len(args))
		for i, arg := range args {
			id, err := strconv.Atoi(arg)
			if err != nil {
				return errors.Wrapf(err, "invalid token id %q", arg)
			}
			ids[i] = id
		}
		text, err := tok.Decode(ids, !keepSpecial)
		if err != nil {
			return err
		}
		if outputJSON {
			return printJSON(cmd, text)
		}
		cmd.Println(text)
		return nil
	},
}

func init() {
	decodeCmd.Flags().BoolVar(&keepSpecial, "keep-special", false, "render beginning/end-of-sequence tokens instead of skipping them")
}
