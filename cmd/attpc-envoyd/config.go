package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gwm17/attpc-envoy/internal/runconfig"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print or initialize the experiment configuration file",
	}

	cmd.AddCommand(configShowCmd())
	cmd.AddCommand(configInitCmd())

	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current experiment configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := runconfig.Load(configPath)
			if err != nil {
				return err
			}
			fmt.Printf("experiment:  %s\n", cfg.Experiment)
			fmt.Printf("run_number:  %d\n", cfg.RunNumber)
			fmt.Printf("description: %s\n", cfg.Description)
			fmt.Printf("gas:         %s\n", cfg.Gas)
			fmt.Printf("beam:        %s\n", cfg.Beam)
			fmt.Printf("energy:      %g MeV/u\n", cfg.Energy)
			fmt.Printf("pressure:    %g Torr\n", cfg.Pressure)
			fmt.Printf("v_thgem:     %g V\n", cfg.VTHGEM)
			fmt.Printf("v_mm:        %g V\n", cfg.VMM)
			fmt.Printf("v_cathode:   %g kV\n", cfg.VCathode)
			fmt.Printf("e_drift:     %g V/m\n", cfg.EDrift)
			fmt.Printf("e_trans:     %g V/m\n", cfg.ETrans)
			return nil
		},
	}
}

func configInitCmd() *cobra.Command {
	var experiment string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a fresh default experiment configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := runconfig.Default(configPath)
			if experiment != "" {
				cfg.Experiment = experiment
			}
			if err := cfg.Save(); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", configPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&experiment, "experiment", "", "Experiment name (overrides the default placeholder)")
	return cmd
}
