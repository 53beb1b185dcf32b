package repl

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ValentinKolb/oKV/lib/store/registry"
)

const helpText = `available commands:
  set [key] [value]      sets the value for a key
  setnx [key] [value]    sets the value only if the key is absent
  get [key]              reads the value for a key
  del [key]              deletes a key value pair
  has [key]              checks if a key exists
  size                   prints the number of stored entries
  clear                  removes all entries
  info                   prints engine statistics
  export [file]          writes all entries to a CSV file
  metrics                prints operation counters (Prometheus format)
  help                   prints this help
  exit                   ends the session`

// dispatch executes a single line of input. It returns true when the
// session should end.
func dispatch(line string) (bool, error) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "set":
		if len(args) != 2 {
			return false, fmt.Errorf("usage: set [key] [value]")
		}
		if err := reg.Put(handle, []byte(args[0]), []byte(args[1])); err != nil {
			return false, err
		}
		fmt.Println("set successfully")

	case "setnx":
		if len(args) != 2 {
			return false, fmt.Errorf("usage: setnx [key] [value]")
		}
		stored, err := reg.PutIfAbsent(handle, []byte(args[0]), []byte(args[1]))
		if err != nil {
			return false, err
		}
		fmt.Printf("key=%s, stored=%t\n", args[0], stored)

	case "get":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: get [key]")
		}
		value, found, err := reg.Get(handle, []byte(args[0]))
		if err != nil {
			return false, err
		}
		fmt.Printf("key=%s, found=%v, value=%s\n", args[0], found, value)

	case "del":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: del [key]")
		}
		deleted, err := reg.Delete(handle, []byte(args[0]))
		if err != nil {
			return false, err
		}
		fmt.Printf("key=%s, deleted=%t\n", args[0], deleted)

	case "has":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: has [key]")
		}
		found, err := reg.Has(handle, []byte(args[0]))
		if err != nil {
			return false, err
		}
		fmt.Printf("key=%s, found=%t\n", args[0], found)

	case "size":
		count, err := reg.Size(handle)
		if err != nil {
			return false, err
		}
		fmt.Printf("size=%d\n", count)

	case "clear":
		if err := reg.Clear(handle); err != nil {
			return false, err
		}
		fmt.Println("cleared successfully")

	case "info":
		info, err := reg.GetDBInfo(handle)
		if err != nil {
			return false, err
		}
		out, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return false, err
		}
		fmt.Println(string(out))

	case "export":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: export [file]")
		}
		count, err := exportCSV(args[0])
		if err != nil {
			return false, err
		}
		fmt.Printf("exported %d entries to %s\n", count, args[0])

	case "metrics":
		var sb strings.Builder
		registry.WriteMetrics(&sb)
		fmt.Print(sb.String())

	case "help":
		fmt.Println(helpText)

	case "exit", "quit":
		return true, nil

	default:
		return false, fmt.Errorf("unknown command %q (type 'help')", cmd)
	}

	return false, nil
}

// exportCSV writes all entries of the session store to a CSV file
func exportCSV(path string) (int, error) {
	st, err := reg.Resolve(handle)
	if err != nil {
		return 0, err
	}

	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"Key", "Value"}); err != nil {
		return 0, fmt.Errorf("failed to write CSV header: %v", err)
	}

	count := 0
	var writeErr error
	err = st.Range(func(key, value []byte) bool {
		if writeErr = writer.Write([]string{string(key), string(value)}); writeErr != nil {
			return false
		}
		count++
		return true
	})
	if err != nil {
		return 0, err
	}
	if writeErr != nil {
		return 0, fmt.Errorf("failed to write CSV row: %v", writeErr)
	}

	return count, nil
}
