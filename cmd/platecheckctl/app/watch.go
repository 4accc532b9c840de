package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	genericapiserver "k8s.io/apiserver/pkg/server"

	"github.com/autopeer-io/platecheck/internal/platecheck/core/model"
	"github.com/autopeer-io/platecheck/pkg/log"
	"github.com/autopeer-io/platecheck/pkg/mqtt"
	"github.com/autopeer-io/platecheck/pkg/mqtt/topic"
)

func newWatchCommand(opts *CtlOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "watch",
		Short:   "Follow lookup and tier events published by a platecheck server",
		Example: `  platecheckctl watch --mqtt.broker tcp://localhost:1883`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.MqttOptions.ToClientConfig()
			if cfg.ClientID == "" {
				cfg.ClientID = fmt.Sprintf("platecheckctl-%d", os.Getpid())
			}
			client, err := mqtt.NewClient(cfg)
			if err != nil {
				return err
			}

			ctx := genericapiserver.SetupSignalContext()
			if err := client.Start(ctx); err != nil {
				return err
			}
			defer client.Disconnect(context.Background())

			p := &eventPrinter{w: cmd.OutOrStdout()}
			topics := topic.NewTopicBuilder(opts.MqttOptions.TopicRoot)
			if err := client.Subscribe(ctx, topics.LookupWildcard(), mqtt.QoSAtMostOnce, p.lookup); err != nil {
				return err
			}
			if err := client.Subscribe(ctx, topics.TierChanged(), mqtt.QoSAtLeastOnce, p.tierChanged); err != nil {
				return err
			}

			if err := client.AwaitConnection(ctx); err != nil {
				return err
			}
			log.Info("Watching for events", "broker", cfg.BrokerURL, "root", opts.MqttOptions.TopicRoot)

			<-ctx.Done()
			return nil
		},
	}
}

// eventPrinter writes one line per received event. Handlers may run
// concurrently.
type eventPrinter struct {
	mu sync.Mutex
	w  io.Writer
}

func (p *eventPrinter) lookup(_ context.Context, t string, payload []byte) {
	var e model.LookupEvent
	if err := json.Unmarshal(payload, &e); err != nil {
		log.Warn("Ignoring malformed lookup event", "topic", t, "error", err)
		return
	}

	line := fmt.Sprintf("%s  lookup  %-8s %-6s %-10s %dms",
		e.At.Format("15:04:05"), e.Registration, e.Tier, e.Outcome, e.DurationMS)
	if e.ErrorKind != "" {
		line += "  " + string(e.ErrorKind)
	}
	p.println(line)
}

func (p *eventPrinter) tierChanged(_ context.Context, t string, payload []byte) {
	var c model.TierChange
	if err := json.Unmarshal(payload, &c); err != nil {
		log.Warn("Ignoring malformed tier change", "topic", t, "error", err)
		return
	}
	p.println(fmt.Sprintf("%s  tier    %s -> %s", c.At.Format("15:04:05"), c.Previous, c.Current))
}

func (p *eventPrinter) println(line string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, strings.TrimRight(line, " "))
}
