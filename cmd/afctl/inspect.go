package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/edgekit/aflib/profile"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect [profile.bin]",
	Short: "Print the attribute profile",
	Long: `Parses a binary attribute profile and prints each attribute's id,
type, maximum length and flags. Without an argument the configured profile
path is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	path := cfg.ProfilePath
	if len(args) == 1 {
		path = args[0]
	}

	p, err := profile.Load(path)
	if err != nil {
		return err
	}

	cmd.SilenceUsage = true

	heading := color.New(color.FgCyan).SprintFunc()
	id := color.New(color.FgYellow).SprintfFunc()

	fmt.Printf("%s %d, %s %d\n", heading("profile version"), p.Version(), heading("attributes"), len(p.Attributes()))

	for _, a := range p.Attributes() {
		fmt.Printf("  %s  %-10s  max %4d  %s\n", id("%5d", a.ID), a.Type, a.MaxLength, flagNames(a.Flags))
	}

	return nil
}

func flagNames(f profile.AttributeFlag) string {
	known := []struct {
		flag profile.AttributeFlag
		name string
	}{
		{profile.FlagRead, "read"},
		{profile.FlagReadNotify, "read-notify"},
		{profile.FlagWrite, "write"},
		{profile.FlagWriteNotify, "write-notify"},
		{profile.FlagHasDefault, "has-default"},
		{profile.FlagLatch, "latch"},
		{profile.FlagMCUHide, "mcu-hide"},
		{profile.FlagPassThrough, "pass-through"},
		{profile.FlagStoreInFlash, "store-in-flash"},
	}

	var names []string
	for _, k := range known {
		if f&k.flag != 0 {
			names = append(names, k.name)
		}
	}

	return strings.Join(names, ",")
}
