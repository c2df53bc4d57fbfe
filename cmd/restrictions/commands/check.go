package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/composite9239/additional-user-restrictions/internal/audit"
	"github.com/composite9239/additional-user-restrictions/internal/config"
	"github.com/composite9239/additional-user-restrictions/internal/metrics"
	"github.com/composite9239/additional-user-restrictions/internal/module"
	"github.com/composite9239/additional-user-restrictions/internal/policy"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

type verdictOutput struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
	ErrCode string `json:"errcode,omitempty"`
	Error   string `json:"error,omitempty"`
}

func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Dry-run a membership event against the configured policy",
		Long: `Reads one client-format event (JSON) and prints the verdict the module
would return for it. Use --event - to read from stdin.`,
		RunE: runCheck,
	}
	cmd.Flags().String("event", "", "Path to the event JSON file, or - for stdin")
	cmd.Flags().Bool("json", false, "Print the verdict as JSON")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	eventPath, _ := cmd.Flags().GetString("event")
	asJSON, _ := cmd.Flags().GetBool("json")
	eventPath = strings.TrimSpace(eventPath)
	if eventPath == "" {
		return fmt.Errorf("--event is required")
	}

	data, err := readEventInput(eventPath)
	if err != nil {
		return err
	}

	file, err := loadConfigFile()
	if err != nil {
		return err
	}
	m, err := newModule(file)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	verdict, err := m.CheckEventJSON(ctx, data, nil)
	if err != nil {
		return err
	}

	if asJSON {
		out := verdictOutput{Allowed: verdict.Allowed(), Reason: string(verdict.Reason)}
		if verdict.Error != nil {
			out.ErrCode = verdict.Error.Code
			out.Error = verdict.Error.Message
		}
		encoded, err := json.Marshal(out)
		if err != nil {
			return fmt.Errorf("encode verdict: %w", err)
		}
		fmt.Println(string(encoded))
		return nil
	}

	action, _ := policy.DecodeAction(data)
	fmt.Println(renderVerdict(action, verdict))
	return nil
}

func readEventInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read event from stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read event file: %w", err)
	}
	return data, nil
}

func newModule(file *config.File) (*module.Module, error) {
	opts := module.Options{
		Logger:  slog.Default(),
		Metrics: metrics.NewRecorder(metrics.DefaultNamespace, prometheus.NewRegistry()),
	}
	if dir := strings.TrimSpace(file.Audit.Dir); dir != "" {
		opts.Audit = audit.NewWriter(dir)
	}
	return module.New(file.Module, nil, opts)
}
