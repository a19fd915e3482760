package version

import "fmt"

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// String возвращает строку с версией, коммитом и датой сборки,
// заполняемыми через -ldflags.
func String() string {
	return fmt.Sprintf("version=%s commit=%s date=%s", version, commit, date)
}
