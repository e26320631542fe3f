package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/nguyentranbao-ct/shop-assistant/internal/app"
	"github.com/nguyentranbao-ct/shop-assistant/internal/config"
	"github.com/nguyentranbao-ct/shop-assistant/internal/models"
	"github.com/nguyentranbao-ct/shop-assistant/internal/server"
	"github.com/nguyentranbao-ct/shop-assistant/internal/usecase"
	"github.com/nguyentranbao-ct/shop-assistant/pkg/logger/log"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var rootCmd = &cobra.Command{
	Use:           "shop-assistant",
	Short:         "Product search and styling assistant for Egyptian fashion stores",
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		app.Invoke(server.StartServer).Run()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Run:   rootCmd.Run,
}

var searchMax int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run one product search and print the JSON response",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := config.Load()
		if err != nil {
			return err
		}
		var uc usecase.SearchUsecase
		fxApp := fx.New(app.Options(conf), fx.Populate(&uc), fx.NopLogger)

		startCtx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
		defer cancel()
		if err := fxApp.Start(startCtx); err != nil {
			return fmt.Errorf("start: %w", err)
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = fxApp.Stop(stopCtx)
		}()

		return runSearch(cmd.Context(), uc, strings.Join(args, " "), searchMax, cmd.OutOrStdout())
	},
}

func runSearch(ctx context.Context, uc usecase.SearchUsecase, query string, maxResults int, out interface{ Write([]byte) (int, error) }) error {
	res, err := uc.Search(ctx, query, maxResults)
	var body any
	if err != nil {
		body = map[string]any{"success": false, "error": models.Message(err), "products": []any{}}
	} else {
		body = models.NewSearchResponse(res)
	}
	data, merr := json.MarshalIndent(body, "", "  ")
	if merr != nil {
		return merr
	}
	if _, werr := fmt.Fprintln(out, string(data)); werr != nil {
		return werr
	}
	return err
}

func init() {
	searchCmd.Flags().IntVar(&searchMax, "max", 0, "maximum number of products (defaults to SEARCH_MAX_RESULTS)")
	rootCmd.AddCommand(serveCmd, searchCmd)
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatal(err)
	}
}
