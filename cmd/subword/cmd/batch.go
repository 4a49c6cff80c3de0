package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gomlx/go-subword/datasets"
	"github.com/gomlx/go-subword/tokenizers/greedy"
)

var (
	batchInput       string
	batchColumn      string
	batchParallelism int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Tokenize a text column of a parquet dataset shard",
	RunE: func(cmd *cobra.Command, args []string) error {
		texts, err := datasets.ReadTextColumn(batchInput, batchColumn)
		if err != nil {
			return err
		}
		var opts []greedy.Option
		if batchParallelism > 0 {
			opts = append(opts, greedy.WithParallelism(batchParallelism))
		}
		tok, err := loadTokenizer(cmd, opts...)
		if err != nil {
			return err
		}

		batch, err := tok.BatchTokenize(texts, !noSpecial)
		if err != nil {
			return err
		}
		if outputJSON {
			return printJSON(cmd, batch)
		}

		total := 0
		for _, tokens := range batch {
			total += len(tokens)
		}
		cmd.Println(labelStyle.Render(fmt.Sprintf("%d rows, %d tokens", len(batch), total)))
		for i, tokens := range batch {
			cmd.Printf("%s %s\n",
				idStyle.Render(fmt.Sprintf("%6d", i)),
				tokenStyle.Render(fmt.Sprintf("%v", tokens)))
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVarP(&batchInput, "input", "i", "", "parquet file to read")
	batchCmd.Flags().StringVarP(&batchColumn, "column", "c", "text", "name of the text column")
	batchCmd.Flags().IntVarP(&batchParallelism, "parallelism", "p", 0, "worker count (default: engine default)")
	_ = batchCmd.MarkFlagRequired("input")
}
