// -----------------------------------------------------------------------
// Scrutor console - interactive one-shot document analysis
// Prompts for a template and source documents, writes the result to disk
// -----------------------------------------------------------------------

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scrutor/internal/common"
	"github.com/ternarybob/scrutor/internal/interfaces"
	"github.com/ternarybob/scrutor/internal/services/analyzer"
	"github.com/ternarybob/scrutor/internal/services/extract"
	"github.com/ternarybob/scrutor/internal/services/llm"
	"github.com/ternarybob/scrutor/internal/services/report"
)

func main() {
	configPath := flag.String("config", "", "Path to TOML config file")
	model := flag.String("model", "", "Model identifier (default from config)")
	apiKey := flag.String("api-key", "", "API key override")
	checklistMode := flag.Bool("checklist", false, "Treat the instruction file as a checklist to complete")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	common.LoadVersionFromFile()

	if *showVersion {
		fmt.Printf("scrutor-cli %s\n", common.GetFullVersion())
		return
	}

	config, err := common.LoadFromFile(*configPath)
	if err != nil {
		fmt.Printf("Error: failed to load configuration: %v\n", err)
		return
	}

	// Console runs log to file only so prompts stay readable
	config.Logging.Output = []string{"file"}
	logger := common.InitLogger(config)
	common.PrintBanner(common.GetVersion())

	// Every failure path prints a message and falls through; the console
	// always exits zero after reporting the outcome.
	runConsole(config, logger, os.Stdin, os.Stdout, *model, *apiKey, *checklistMode)
}

func runConsole(config *common.Config, logger arbor.ILogger, in io.Reader, out io.Writer, model, apiKey string, checklistMode bool) {
	reader := bufio.NewReader(in)

	instructionPath := promptLine(reader, out, "Template/checklist file: ")
	if instructionPath == "" {
		fmt.Fprintln(out, "Error: a template or checklist file is required.")
		return
	}

	instruction, err := extract.LoadFile(instructionPath)
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}

	docsLine := promptLine(reader, out, "Document files (comma-separated): ")
	if docsLine == "" {
		fmt.Fprintln(out, "Error: at least one document file is required.")
		return
	}

	req := &interfaces.RunRequest{
		Options: interfaces.AnalyzeOptions{
			Model:          model,
			APIKeyOverride: apiKey,
		},
	}
	if checklistMode {
		req.Checklist = instruction
	} else {
		req.Template = instruction
	}

	for _, path := range strings.Split(docsLine, ",") {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		doc, err := extract.LoadFile(path)
		if err != nil {
			fmt.Fprintf(out, "Warning: skipping %s: %v\n", path, err)
			continue
		}
		req.Documents = append(req.Documents, *doc)
	}
	if len(req.Documents) == 0 {
		fmt.Fprintln(out, "Error: no readable document files.")
		return
	}

	outputPath := promptLine(reader, out, "Output file: ")
	if outputPath == "" {
		fmt.Fprintln(out, "Error: an output file path is required.")
		return
	}

	// The console resolves credentials from environment and config only;
	// the settings store belongs to the server.
	client := llm.NewClient(config, nil, logger)
	defer client.Close()

	processor := report.NewProcessor(config.Analysis.ChecklistPrefix, config.Analysis.DefaultCompany)
	service := analyzer.NewService(extract.NewExtractor(logger), client, processor, logger)

	fmt.Fprintf(out, "Analyzing %d document(s) with %s...\n", len(req.Documents), client.ResolvedModel(model))

	result, err := service.Run(context.Background(), req)
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}

	for _, warning := range result.Warnings {
		fmt.Fprintf(out, "Warning: %s\n", warning)
	}

	instructionResult := result.Analysis
	if checklistMode {
		instructionResult = result.Checklist
	}

	if !instructionResult.Result.Succeeded() {
		fmt.Fprintf(out, "Error: %s\n", instructionResult.Result.Text)
		return
	}

	if checklistMode && instructionResult.Filename != "" {
		outputPath = instructionResult.Filename
	}

	if err := os.WriteFile(outputPath, []byte(instructionResult.Result.Text), 0644); err != nil {
		fmt.Fprintf(out, "Error: failed to write %s: %v\n", outputPath, err)
		return
	}

	fmt.Fprintf(out, "Result written to %s\n", outputPath)
	if usage := instructionResult.Result.Usage; usage != nil {
		fmt.Fprintf(out, "Tokens: %d prompt + %d completion = %d total\n",
			usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens)
	}
	if cost := instructionResult.Cost; cost != nil {
		fmt.Fprintf(out, "Estimated cost: $%.4f (input $%.4f, output $%.4f)\n",
			cost.TotalCost, cost.InputCost, cost.OutputCost)
	}
}

func promptLine(reader *bufio.Reader, out io.Writer, prompt string) string {
	fmt.Fprint(out, prompt)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimSpace(line)
}
