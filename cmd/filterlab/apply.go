package main

import (
	"fmt"
	"strings"

	"filterlab/internal/algorithms"
	"filterlab/internal/engine"
	"filterlab/internal/pipeline"
	"filterlab/internal/shutdown"

	"github.com/spf13/cobra"
)

type applyOptions struct {
	operator string
	params   []string
	workers  int
}

func newApplyCommand(opts *rootOptions) *cobra.Command {
	applyOpts := &applyOptions{}

	cmd := &cobra.Command{
		Use:   "apply --op NAME [--param key=value]... INPUT OUTPUT",
		Short: "Apply one operator to an image file",
		Long: "Apply one operator to INPUT and write the result to OUTPUT. The output format follows\n" +
			"the OUTPUT extension. SIGINT cancels the run and exits with status 130.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(opts, applyOpts, args[0], args[1])
		},
	}

	cmd.Flags().StringVar(&applyOpts.operator, "op", "", "operator name (see `filterlab list`)")
	cmd.Flags().StringArrayVar(&applyOpts.params, "param", nil, "operator parameter as key=value; repeatable")
	cmd.Flags().IntVar(&applyOpts.workers, "workers", 0, "worker goroutines (default from config, else min(6, CPUs))")
	_ = cmd.MarkFlagRequired("op")

	return cmd
}

func parseParams(pairs []string) (algorithms.Parameters, error) {
	params := algorithms.Parameters{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --param %q: want key=value", pair)
		}
		params[key] = strings.TrimSpace(value)
	}
	return params, nil
}

func runApply(opts *rootOptions, applyOpts *applyOptions, input, output string) error {
	log := opts.log

	params, err := parseParams(applyOpts.params)
	if err != nil {
		return err
	}

	se, err := opts.cfg.StructuringElementValue()
	if err != nil {
		return err
	}
	manager := algorithms.NewManager(se)
	if err := manager.ApplyOverrides(opts.cfg.Operators); err != nil {
		return err
	}
	op, err := manager.Build(applyOpts.operator, params)
	if err != nil {
		return err
	}

	workers := applyOpts.workers
	if workers <= 0 {
		workers = opts.cfg.Workers
	}
	if workers <= 0 {
		workers = engine.DefaultWorkers()
	}

	data, err := pipeline.NewLoader(log).LoadFile(input)
	if err != nil {
		return err
	}

	shutdownManager := shutdown.NewManager(log)
	stop := shutdownManager.Listen()
	defer stop()

	eng := engine.New(engine.WithWorkers(workers), engine.WithLogger(log))
	// Progress calls are serialized by the engine.
	next := 0
	result, err := eng.Run(shutdownManager.Context(), data.Grid, op, func(percent int) {
		if percent >= next {
			next = percent/10*10 + 10
			log.Debug("apply", "progress", map[string]interface{}{"percent": percent})
		}
	})
	if err != nil {
		return err
	}
	if result.State == engine.Cancelled {
		return &exitError{code: exitCodeCancelled, msg: fmt.Sprintf("%s cancelled", applyOpts.operator)}
	}

	if err := pipeline.NewSaver(log).SaveFile(output, result.Grid); err != nil {
		return err
	}

	fields := map[string]interface{}{
		"operator": applyOpts.operator,
		"input":    input,
		"output":   output,
		"workers":  workers,
		"elapsed":  result.Elapsed.String(),
	}
	if metrics, err := pipeline.CompareGrids(data.Grid, result.Grid); err == nil {
		for k, v := range metrics.Fields() {
			fields[k] = v
		}
	}
	log.Info("apply", "image written", fields)
	return nil
}
