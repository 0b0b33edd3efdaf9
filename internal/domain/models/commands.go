package models

import "strings"

// CommandType enumerates the menu selections understood by the dispatcher.
type CommandType string

const (
	CommandLoad    CommandType = "load"
	CommandCapture CommandType = "capture"
	CommandViewAll CommandType = "view"
	CommandRestock CommandType = "restock"
	CommandSearch  CommandType = "search"
	CommandValue   CommandType = "value"
	CommandHighest CommandType = "highest"
	CommandSummary CommandType = "summary"
	CommandExit    CommandType = "exit"
	CommandUnknown CommandType = "unknown"
)

// MenuEntry pairs a menu key with its command and label.
type MenuEntry struct {
	Key   string
	Type  CommandType
	Label string
}

// Menu lists the selections in display order.
var Menu = []MenuEntry{
	{Key: "1", Type: CommandLoad, Label: "Read shoes data"},
	{Key: "2", Type: CommandCapture, Label: "Capture a new shoe"},
	{Key: "3", Type: CommandViewAll, Label: "View all shoes"},
	{Key: "4", Type: CommandRestock, Label: "Restock (lowest quantity)"},
	{Key: "5", Type: CommandSearch, Label: "Search shoe by code"},
	{Key: "6", Type: CommandValue, Label: "Value per item"},
	{Key: "7", Type: CommandHighest, Label: "Highest quantity (for sale)"},
	{Key: "8", Type: CommandSummary, Label: "Stock summary"},
	{Key: "0", Type: CommandExit, Label: "Exit"},
}

// Command represents a parsed menu selection.
type Command struct {
	Type CommandType
	Raw  string
}

// ParseCommand maps operator input to a Command. Both the menu key and the
// command name are accepted, so "4", "restock" and "/restock" are equivalent.
func ParseCommand(input string) Command {
	normalized := strings.TrimSpace(strings.ToLower(input))
	cmd := Command{Type: CommandUnknown, Raw: input}

	if normalized == "" {
		return cmd
	}

	head := strings.TrimPrefix(normalized, "/")
	for _, entry := range Menu {
		if head == entry.Key || head == string(entry.Type) {
			cmd.Type = entry.Type
			return cmd
		}
	}

	return cmd
}
