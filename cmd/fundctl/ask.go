package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/futig/fund-faq/internal/builder"
	"github.com/futig/fund-faq/internal/entity"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask one question and print the answer with its sources",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	asker, err := builder.BuildAsker(ctx, environment)
	if err != nil {
		return err
	}
	defer asker.Close()

	ctx = ctxzap.ToContext(ctx, asker.Logger.With(zap.String("request_id", uuid.NewString())))
	ans := asker.Usecase.Ask(ctx, strings.Join(args, " "))
	printAnswer(cmd.OutOrStdout(), ans)
	return nil
}

func printAnswer(w io.Writer, ans *entity.Answer) {
	if ans.Degraded {
		fmt.Fprintln(w, "[degraded]")
	}
	fmt.Fprintln(w, ans.Text)

	if len(ans.Sources) > 0 {
		fmt.Fprintln(w, "\nSources:")
		for _, src := range ans.Sources {
			fmt.Fprintf(w, "  - %s\n", src)
		}
	}
	for _, warning := range ans.Warnings {
		fmt.Fprintf(w, "\nwarning: %s\n", warning)
	}
	if ans.Error != entity.ErrorKindNone {
		fmt.Fprintf(w, "\n(%s)\n", ans.Error)
	}
}
