package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Odnson/fobi-amaturalist-sub002/internal/config"
	"github.com/Odnson/fobi-amaturalist-sub002/internal/infrastructure/messaging/kafka"
	"github.com/Odnson/fobi-amaturalist-sub002/internal/infrastructure/monitoring/logging"
	"github.com/Odnson/fobi-amaturalist-sub002/pkg/errors"
)

// eventSource is the consuming side of the selection event topics.
type eventSource interface {
	Run(ctx context.Context, handler kafka.MessageHandler) error
	Close() error
}

// openEventSource is replaced in tests.
var openEventSource = func(cfg kafka.ConsumerConfig, logger logging.Logger) (eventSource, error) {
	c, err := kafka.NewConsumer(cfg, logger)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func newEventsCmd() *cobra.Command {
	var fromBeginning bool
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Tail selection and synonym redirect events",
		Long: `Consume the selection event topics and print each event until interrupted.
Requires kafka.brokers in the configuration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			cc, err := consumerConfig(cliCtx.Config, fromBeginning)
			if err != nil {
				return err
			}
			src, err := openEventSource(cc, cliCtx.Logger)
			if err != nil {
				return err
			}
			defer src.Close()

			out := cmd.OutOrStdout()
			return src.Run(cmd.Context(), func(_ context.Context, msg *kafka.Message) error {
				return printEvent(out, msg, cliCtx.OutputFormat)
			})
		},
	}
	cmd.Flags().BoolVar(&fromBeginning, "from-beginning", false, "start from the earliest retained event")
	return cmd
}

func consumerConfig(cfg *config.Config, fromBeginning bool) (kafka.ConsumerConfig, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return kafka.ConsumerConfig{}, errors.NewValidationError("kafka.brokers", "no brokers configured")
	}
	offset := "latest"
	if fromBeginning {
		offset = "earliest"
	}
	return kafka.ConsumerConfig{
		Brokers:         cfg.Kafka.Brokers,
		GroupID:         cfg.Kafka.GroupID,
		Topics:          []string{cfg.Kafka.SelectionTopic, cfg.Kafka.RedirectTopic},
		AutoOffsetReset: offset,
	}, nil
}

func printEvent(w io.Writer, msg *kafka.Message, format string) error {
	env, err := kafka.DecodeEnvelope(msg.Value)
	if err != nil {
		return err
	}
	if format == FormatJSON {
		return writeJSON(w, env)
	}

	switch env.EventType {
	case kafka.EventSynonymRedirected:
		var p kafka.SynonymRedirectedPayload
		if err := env.DecodePayload(&p); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s %s %s → %s\n", env.Timestamp.Format("15:04:05"),
			color.YellowString("redirect"), p.OriginalName, p.ResolvedName)
	case kafka.EventSelectionFinalized:
		var p kafka.SelectionFinalizedPayload
		if err := env.DecodePayload(&p); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s %s %s [%s] #%s session=%s\n", env.Timestamp.Format("15:04:05"),
			color.GreenString("selected"), p.Selection.DisplayLabel, p.Selection.Rank, p.Selection.ID, p.SessionID)
	default:
		fmt.Fprintf(w, "%s %s %s\n", env.Timestamp.Format("15:04:05"), env.EventType, env.EventID)
	}
	return nil
}

//Personal.AI order the ending
