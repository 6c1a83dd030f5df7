package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/kelseyhightower/envconfig"
	"github.com/olekukonko/tablewriter"

	"cineverse-chat/domain"
)

// inspectConfig carries the optional env knobs. Flags win when both are set.
type inspectConfig struct {
	DBPath   string `envconfig:"BADGER_FILEPATH" default:"/tmp/badger"`
	Colours  bool   `envconfig:"INSPECT_COLOURS" default:"true"`
	MaxWidth int    `envconfig:"INSPECT_MAX_WIDTH" default:"48"`
}

func main() {
	var cfg inspectConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatal("Error reading environment: ", err)
	}

	dbPath := flag.String("db", cfg.DBPath, "Path to badger DB")
	prefix := flag.String("prefix", "msg:", "Prefix to scan (msg:, conv:, user:)")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	header := fmt.Sprintf(" Scanning %q in %s ", *prefix, *dbPath)
	if cfg.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	fmt.Println(header)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Sent At", "Conversation", "Sender", "Type", "Body"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()

			// Skip the secondary email index, it only holds user IDs.
			if strings.HasPrefix(string(item.Key()), "user:email:") {
				continue
			}

			err := item.Value(func(v []byte) error {
				row, ok := describe(string(item.Key()), v, cfg.MaxWidth)
				if !ok {
					// Log and keep scanning instead of aborting the dump.
					fmt.Printf("Error unmarshaling key %s\n", string(item.Key()))
					return nil
				}
				table.Append(row)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

// describe renders one badger entry as a table row based on its key prefix.
func describe(key string, value []byte, maxWidth int) ([]string, bool) {
	switch {
	case strings.HasPrefix(key, "msg:"):
		var m domain.ChatMessage
		if err := json.Unmarshal(value, &m); err != nil {
			return nil, false
		}
		return []string{
			key,
			m.SentAt.Format("15:04:05.000"),
			shorten(m.ConversationID.String(), 8),
			m.SenderName,
			string(m.Type),
			shorten(m.Body, maxWidth),
		}, true
	case strings.HasPrefix(key, "conv:"):
		var c domain.Conversation
		if err := json.Unmarshal(value, &c); err != nil {
			return nil, false
		}
		employee := "-"
		if c.EmployeeID != nil {
			employee = shorten(*c.EmployeeID, 8)
		}
		return []string{
			key,
			c.CreatedAt.Format("15:04:05.000"),
			shorten(c.ID.String(), 8),
			employee,
			string(c.Status),
			"customer=" + shorten(c.CustomerID, 8),
		}, true
	case strings.HasPrefix(key, "user:"):
		var u domain.User
		if err := json.Unmarshal(value, &u); err != nil {
			return nil, false
		}
		return []string{
			key,
			u.CreatedAt.Format("15:04:05.000"),
			shorten(u.ID, 8),
			u.Username,
			string(u.Role),
			u.Email,
		}, true
	}
	return []string{key, "", "", "", "?", shorten(string(value), maxWidth)}, true
}

func shorten(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true).
		WithValueLogFileSize(10 * 1024 * 1024)

	db, err := badger.Open(opts)
	if err != nil {
		// A dirty shutdown may require a truncating write open first.
		if strings.Contains(err.Error(), "Log truncate required") {
			repairOpts := badger.DefaultOptions(path).
				WithLogger(nil).WithBypassLockGuard(true)

			db, err = badger.Open(repairOpts)
			if err != nil {
				return nil, fmt.Errorf("repair failed: %w", err)
			}

			db.Close()
			return badger.Open(opts)
		}
		return nil, err
	}
	return db, nil
}
