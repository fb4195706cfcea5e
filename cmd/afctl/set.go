package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/edgekit/aflib/profile"
)

// setCmd represents the set command
var setCmd = &cobra.Command{
	Use:   "set <attr-id> <value>",
	Short: "Request an attribute change on the hub service",
	Long: `Sends a set request for one attribute. When the profile declares the
attribute's type the value is parsed accordingly (booleans, integers,
strings); otherwise, and always with --hex, the raw bytes are sent.

Examples:
  afctl set 1024 on
  afctl set 1025 -40
  afctl set 2000 0102ff --hex`,
	Args: cobra.ExactArgs(2),
	RunE: runSet,
}

var setHexValue bool

func init() {
	setCmd.Flags().BoolVar(&setHexValue, "hex", false, "Parse the value as hex (e.g. '01:02'); profile-typed or raw UTF-8 by default")
}

func runSet(cmd *cobra.Command, args []string) error {
	attrID, err := parseAttrID(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	cmd.SilenceUsage = true

	s, err := dialSession(cfg, nil)
	if err != nil {
		return err
	}
	defer s.close()

	if err := sendValue(s, attrID, args[1]); err != nil {
		return err
	}

	fmt.Printf("Requested change of attribute %d\n", attrID)
	return nil
}

func sendValue(s *session, attrID uint16, raw string) error {
	if setHexValue {
		value, err := parseHexValue(raw)
		if err != nil {
			return err
		}

		return s.client.Set(attrID, value)
	}

	if s.profile != nil {
		if a := s.profile.Find(attrID); a != nil {
			return sendTypedValue(s, a, raw)
		}
	}

	return s.client.Set(attrID, []byte(raw))
}

func sendTypedValue(s *session, a *profile.Attribute, raw string) error {
	switch a.Type {
	case profile.TypeBoolean:
		v, err := parseBoolValue(raw)
		if err != nil {
			return err
		}
		return s.client.SetBool(a.ID, v)
	case profile.TypeSInt8:
		v, err := strconv.ParseInt(raw, 0, 8)
		if err != nil {
			return fmt.Errorf("attribute %d expects sint8: %w", a.ID, err)
		}
		return s.client.SetInt8(a.ID, int8(v))
	case profile.TypeSInt16:
		v, err := strconv.ParseInt(raw, 0, 16)
		if err != nil {
			return fmt.Errorf("attribute %d expects sint16: %w", a.ID, err)
		}
		return s.client.SetInt16(a.ID, int16(v))
	case profile.TypeSInt32:
		v, err := strconv.ParseInt(raw, 0, 32)
		if err != nil {
			return fmt.Errorf("attribute %d expects sint32: %w", a.ID, err)
		}
		return s.client.SetInt32(a.ID, int32(v))
	case profile.TypeSInt64:
		v, err := strconv.ParseInt(raw, 0, 64)
		if err != nil {
			return fmt.Errorf("attribute %d expects sint64: %w", a.ID, err)
		}
		return s.client.SetInt64(a.ID, v)
	case profile.TypeUTF8S:
		return s.client.SetString(a.ID, raw)
	default:
		return s.client.Set(a.ID, []byte(raw))
	}
}

func parseBoolValue(raw string) (bool, error) {
	switch raw {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("expected a boolean: %w", err)
	}

	return v, nil
}
