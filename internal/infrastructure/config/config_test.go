package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  storage: mysql
library:
  loan_days: 7
  daily_fine: "0.5"
database:
  user: lib
  password: secret
  host: db
  port: 3307
  dbname: library
  charset: utf8mb4
  parse_time: true
  loc: Asia/Shanghai
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 7*24*time.Hour, cfg.Library.LoanPeriod())
	fine, err := cfg.Library.DailyFineAmount()
	require.NoError(t, err)
	assert.Equal(t, "0.5", fine.String())

	// 未配置的字段使用默认值
	assert.Equal(t, 5*time.Second, cfg.Client.Timeout)
	assert.Equal(t, uint32(3), cfg.Client.Breaker.ConsecutiveFailures)
	assert.Equal(t, "library.events", cfg.MQ.Exchange)

	assert.Equal(t,
		"lib:secret@tcp(db:3307)/library?charset=utf8mb4&parseTime=true&loc=Asia%2FShanghai",
		cfg.Database.DSN())
}

func TestLoadFile_EnvOverride(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9090\n")
	t.Setenv("LIBRARY_LIBRARY_DAILY_FINE", "25")
	t.Setenv("LIBRARY_SERVER_PORT", "7070")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "25", cfg.Library.DailyFine)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoadFile_Invalid(t *testing.T) {
	cases := map[string]string{
		"端口非法":   "server:\n  port: 70000\n",
		"存储后端未知": "server:\n  storage: mongo\n",
		"借阅天数为0": "library:\n  loan_days: 0\n",
		"罚金不是数字": "library:\n  daily_fine: abc\n",
		"罚金为负数":  "library:\n  daily_fine: \"-1\"\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err, "显式指定的文件不存在时报错")
}
