package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/autopeer-io/platecheck/internal/platecheck/core/gating"
	"github.com/autopeer-io/platecheck/internal/platecheck/core/model"
	"github.com/autopeer-io/platecheck/pkg/vrm"
)

const cliSession = "platecheckctl"

type lookupOptions struct {
	tier    string
	output  string
	timeout time.Duration
}

func newLookupCommand(opts *CtlOptions) *cobra.Command {
	lo := &lookupOptions{output: "table", timeout: 30 * time.Second}

	cmd := &cobra.Command{
		Use:   "lookup REGISTRATION",
		Short: "Look up a vehicle and print the report allowed by the tier",
		Example: `  platecheckctl lookup WA67YSB --report-tier gold
  platecheckctl lookup 'ab12 cde' --report-tier basic --dvla.api-key "$DVLA_API_KEY" -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.components()
			if err != nil {
				return err
			}

			t := c.Tiers.Get()
			if lo.tier != "" {
				if t, err = model.ParseTier(lo.tier); err != nil {
					return err
				}
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), lo.timeout)
			defer cancel()

			p, err := c.Service.Lookup(ctx, cliSession, args[0], t)
			if err != nil {
				return err
			}
			return printPresentation(cmd.OutOrStdout(), p, lo.output)
		},
	}

	// Not --tier: it would shadow the tier.* option group in the config tree.
	cmd.Flags().StringVar(&lo.tier, "report-tier", lo.tier, "Tier to look up with. Defaults to the active tier.")
	cmd.Flags().StringVarP(&lo.output, "output", "o", lo.output, "Output format: table or json.")
	cmd.Flags().DurationVar(&lo.timeout, "timeout", lo.timeout, "Overall time allowed for the lookup.")
	return cmd
}

func printPresentation(w io.Writer, p *gating.Presentation, output string) error {
	switch output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	case "table", "":
	default:
		return fmt.Errorf("unknown output format %q", output)
	}

	r := p.Report

	summary := uitable.New()
	summary.MaxColWidth = 60
	summary.Wrap = true
	summary.AddRow("REGISTRATION:", vrm.Format(r.Registration))
	summary.AddRow("TIER:", p.Tier)
	summary.AddRow("SOURCE:", r.Source)
	summary.AddRow("MAKE:", r.Identity.Make)
	summary.AddRow("MODEL:", orDash(r.Identity.Model))
	summary.AddRow("COLOUR:", r.Identity.Colour)
	summary.AddRow("FUEL:", r.Identity.FuelType)
	summary.AddRow("AGE:", optionalString(r.Identity.VehicleAge, func(v int) string { return strconv.Itoa(v) + " years" }))
	summary.AddRow("MOT:", dueString(r.MotAndTax.MotStatus, r.MotAndTax.MotDueDate, r.MotAndTax.MotDueSoon))
	summary.AddRow("TAX:", dueString(r.MotAndTax.TaxStatus, r.MotAndTax.TaxDueDate, r.MotAndTax.TaxDueSoon))
	if env, ok := r.Environmental.Get(); ok {
		summary.AddRow("CO2:", fmt.Sprintf("%d g/km (band %s)", env.CO2Emissions, env.CO2Band))
	}
	if v, ok := r.Valuation.Get(); ok {
		summary.AddRow("VALUATION:", fmt.Sprintf("%s %s trade, %s retail", v.Currency, v.Trade.StringFixed(0), v.Retail.StringFixed(0)))
	}
	if _, err := fmt.Fprintln(w, summary); err != nil {
		return err
	}

	sections := uitable.New()
	sections.AddRow("SECTION", "ACCESS", "REQUIRES")
	for _, id := range gating.Sections() {
		sections.AddRow(id, p.Visibility[id], gating.RequiredTier(id))
	}
	if _, err := fmt.Fprintf(w, "\n%s\n", sections); err != nil {
		return err
	}

	if next, ok := p.Upgrade.Get(); ok {
		_, err := fmt.Fprintf(w, "\nUpgrade to %s to unlock more sections.\n", next)
		return err
	}
	return nil
}

func dueString(status string, due model.Optional[model.Date], soon bool) string {
	s := orDash(status)
	if d, ok := due.Get(); ok {
		s += " until " + d.String()
	}
	if soon {
		s += " (due soon)"
	}
	return s
}

func optionalString[T any](o model.Optional[T], format func(T) string) string {
	if v, ok := o.Get(); ok {
		return format(v)
	}
	return "-"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
