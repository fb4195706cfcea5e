package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/edgekit/aflib"
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <attr-id>",
	Short: "Request an attribute value from the hub service",
	Long: `Sends a get request for one attribute and waits for the hub service
to answer with a notification. The protocol carries no correlation token, so
the first notification for the requested id is taken as the answer.`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

var getTimeout time.Duration

func init() {
	getCmd.Flags().DurationVar(&getTimeout, "timeout", 5*time.Second, "How long to wait for the value notification")
}

func runGet(cmd *cobra.Command, args []string) error {
	attrID, err := parseAttrID(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	cmd.SilenceUsage = true

	result := make(chan []byte, 1)
	nh := aflib.NotifyHandlerFunc(func(id uint16, value []byte) {
		if id != attrID {
			return
		}

		select {
		case result <- append([]byte(nil), value...):
		default:
		}
	})

	s, err := dialSession(cfg, nh)
	if err != nil {
		return err
	}
	defer s.close()

	if err := s.client.Get(attrID); err != nil {
		return err
	}

	select {
	case value := <-result:
		fmt.Printf("%d = %s\n", attrID, formatValue(s.profile, attrID, value))
		return nil
	case <-time.After(getTimeout):
		return fmt.Errorf("no notification for attribute %d within %s", attrID, getTimeout)
	}
}
