package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/edgekit/aflib"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print attribute notifications as they arrive",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	cmd.SilenceUsage = true

	prof, err := loadProfile(cfg)
	if err != nil {
		return err
	}

	id := color.New(color.FgYellow).SprintfFunc()

	nh := aflib.NotifyHandlerFunc(func(attrID uint16, value []byte) {
		fmt.Printf("%s  %s  %s\n", time.Now().Format(time.RFC3339), id("%5d", attrID), formatValue(prof, attrID, value))
	})

	s, err := dialSession(cfg, nh)
	if err != nil {
		return err
	}
	defer s.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("Watching for notifications, Ctrl+C to stop.")
	<-ctx.Done()

	return nil
}
