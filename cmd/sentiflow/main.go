package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/spacesedan/sentiflow-vader/config"
	"github.com/spacesedan/sentiflow-vader/internal/batch"
	"github.com/spacesedan/sentiflow-vader/internal/classifier"
	"github.com/spacesedan/sentiflow-vader/internal/logging"
	"github.com/spacesedan/sentiflow-vader/internal/models"
	"github.com/spacesedan/sentiflow-vader/internal/pipeline"
	"github.com/spacesedan/sentiflow-vader/internal/report"
	"github.com/spacesedan/sentiflow-vader/internal/tabular"
	"github.com/spf13/cobra"
)

var (
	inputPath    string
	textColumn   string
	outputPath   string
	outputFormat string
	manualColumn string
)

var rootCmd = &cobra.Command{
	Use:           "sentiflow",
	Short:         "sentiflow classifies text as positive, neutral or negative with VADER",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var classifyCmd = &cobra.Command{
	Use:     "classify <text>",
	Short:   "Classify a single piece of text",
	Example: `sentiflow classify "Aplikasinya bagus sekali"`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := buildPipeline()
		if err != nil {
			return err
		}
		defer p.Close()

		return runClassify(cmd.Context(), p.Engine, args[0], cmd.OutOrStdout())
	},
}

var batchCmd = &cobra.Command{
	Use:     "batch",
	Short:   "Classify one column of a CSV, TSV or XLSX file",
	Example: "sentiflow batch --file reviews.tsv --column content --out vader_result.csv",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := buildPipeline()
		if err != nil {
			return err
		}
		defer p.Close()

		return runBatch(cmd.Context(), p.Processor, cmd.OutOrStdout())
	},
}

func init() {
	batchCmd.Flags().StringVarP(&inputPath, "file", "f", "", "CSV, TSV or XLSX file to classify")
	batchCmd.Flags().StringVarP(&textColumn, "column", "c", "", "name of the column holding the text")
	batchCmd.Flags().StringVarP(&outputPath, "out", "o", "", "write the augmented table to this path")
	batchCmd.Flags().StringVar(&outputFormat, "format", "", "csv or xlsx, defaults to the --out extension")
	batchCmd.Flags().StringVar(&manualColumn, "manual-column", "", "column with manual labels (P/N/NT) to compare against")
	_ = batchCmd.MarkFlagRequired("file")
	_ = batchCmd.MarkFlagRequired("column")

	rootCmd.AddCommand(classifyCmd, batchCmd)
}

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		slog.Error("[Main] Command failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func buildPipeline() (*pipeline.Pipeline, error) {
	cfg, err := config.FromEnv()
	logging.InitLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return pipeline.New(cfg)
}

func runClassify(ctx context.Context, engine *classifier.Engine, text string, out io.Writer) error {
	record, err := engine.Classify(ctx, text)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(record)
}

type batchProcessor interface {
	Process(ctx context.Context, dataset *tabular.Dataset, column string, progress batch.ProgressFunc) (*models.BatchResult, error)
}

func runBatch(ctx context.Context, processor batchProcessor, out io.Writer) error {
	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("cannot open input: %w", err)
	}
	defer f.Close()

	dataset, err := tabular.Parse(filepath.Base(inputPath), f)
	if err != nil {
		return err
	}
	slog.Info("[Main] Dataset loaded",
		slog.String("file", inputPath),
		slog.Int("rows", dataset.Len()),
		slog.Any("columns", dataset.Columns))

	lastLogged := 0
	result, err := processor.Process(ctx, dataset, textColumn, func(fraction float64) {
		if pct := int(fraction * 100); pct >= lastLogged+10 || fraction == 1.0 {
			lastLogged = pct
			slog.Info("[Main] Progress", slog.Int("percent", pct))
		}
	})
	if err != nil {
		return err
	}

	printDistribution(out, result)

	if manualColumn != "" {
		agreement, err := report.Compare(result, manualColumn)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "agreement with %s: %d/%d (%.2f%%), skipped %d\n",
			manualColumn, agreement.Matched, agreement.Total, agreement.Accuracy*100, len(agreement.Skipped))
	}

	if outputPath == "" {
		return nil
	}

	rawFormat := outputFormat
	if rawFormat == "" {
		rawFormat = filepath.Ext(outputPath)
		if len(rawFormat) > 0 {
			rawFormat = rawFormat[1:]
		}
	}
	format, err := tabular.ParseFormat(rawFormat)
	if err != nil {
		return err
	}

	payload, err := tabular.Export(result, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, payload, 0o644); err != nil {
		return fmt.Errorf("cannot write output: %w", err)
	}

	slog.Info("[Main] Results written",
		slog.String("path", outputPath),
		slog.String("mime", format.MIMEType()))
	return nil
}

func printDistribution(out io.Writer, result *models.BatchResult) {
	labels := make([]string, 0, len(result.Distribution))
	for label := range result.Distribution {
		labels = append(labels, string(label))
	}
	sort.Strings(labels)

	fmt.Fprintf(out, "rows: %d\n", result.Len())
	for _, label := range labels {
		fmt.Fprintf(out, "%-9s %d\n", label, result.Distribution[models.Label(label)])
	}
	if len(result.FailedRows) > 0 {
		rows := make([]int, len(result.FailedRows))
		for i, idx := range result.FailedRows {
			rows[i] = idx + 1
		}
		fmt.Fprintf(out, "failed rows: %v\n", rows)
	}
}
