package cmd

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [text...]",
	Short: "Split text into vocabulary token strings",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tok, err := loadTokenizer(cmd)
		if err != nil {
			return err
		}
		tokens, err := tok.Tokenize(strings.Join(args, " "), !noSpecial)
		if err != nil {
			return err
		}
		if outputJSON {
			return printJSON(cmd, tokens)
		}
		cmd.Println(labelStyle.Render(fmt.Sprintf("%d tokens:", len(tokens))))
		styled := make([]string, len(tokens))
		for i, t := range tokens {
			styled[i] = tokenStyle.Render(t)
		}
		cmd.Println(strings.Join(styled, " "))
		return nil
	},
}

var encodeCmd = &cobra.Command{
	Use:   "encode [text...]",
	Short: "Convert text into token ids",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tok, err := loadTokenizer(cmd)
		if err != nil {
			return err
		}
		ids, err := tok.Encode(strings.Join(args, " "), !noSpecial)
		if err != nil {
			return err
		}
		if outputJSON {
			return printJSON(cmd, ids)
		}
		cmd.Println(labelStyle.Render(fmt.Sprintf("%d ids:", len(ids))))
		styled := make([]string, len(ids))
		for i, id := range ids {
			styled[i] = idStyle.Render(fmt.Sprintf("%d", id))
		}
		cmd.Println(strings.Join(styled, " "))
		return nil
	},
}

func printJSON(cmd *cobra.Command, value any) error {
	out, err := json.Marshal(value)
	if err != nil {
		return err
	}
	cmd.Println(string(out))
	return nil
}
