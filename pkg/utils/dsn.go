package utils

import (
	"strings"

	"ViewTube.com/config"
)

// GetMysqlDsn 生成数据库的dsn
func GetMysqlDsn(m config.Mysql) string {
	charset := m.Charset
	if charset == "" {
		charset = "utf8mb4"
	}
	dsn := strings.Join([]string{m.Username, ":",
		m.Password, "@tcp(", m.Addr, ")/",
		m.Database, "?charset=" + charset + "&parseTime=True&loc=Local"}, "") //nolint:lll
	if m.Params != "" {
		dsn += "&" + m.Params
	}
	return dsn
}
