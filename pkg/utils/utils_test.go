package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"ViewTube.com/config"
)

func TestParseID(t *testing.T) {
	id, ok := ParseID("1234567890123")
	assert.True(t, ok)
	assert.EqualValues(t, 1234567890123, id)

	for _, bad := range []string{"", "0", "-3", "abc", "12x"} {
		_, ok := ParseID(bad)
		assert.False(t, ok, bad)
	}
}

func TestTransfer(t *testing.T) {
	assert.EqualValues(t, 42, Transfer("42"))
	assert.EqualValues(t, 42, Transfer(int64(42)))
	assert.EqualValues(t, 42, Transfer(float64(42)))
	assert.EqualValues(t, 42, Transfer(json.Number("42")))
	assert.EqualValues(t, -1, Transfer("x"))
	assert.EqualValues(t, -1, Transfer(nil))
}

func TestCrypt(t *testing.T) {
	HashCost = bcrypt.MinCost
	hashed, err := Crypt("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hashed)
	assert.True(t, VerifyPassword("secret", hashed))
	assert.False(t, VerifyPassword("other", hashed))
	assert.False(t, VerifyPassword("secret", ""))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("someone@example.com"))
	assert.True(t, IsValidEmail(" a.b+c@mail.example.org "))
	assert.False(t, IsValidEmail("someone"))
	assert.False(t, IsValidEmail("someone@example"))
}

func TestSnowflakeUnique(t *testing.T) {
	sf, err := NewSnowflake(3, 4)
	require.NoError(t, err)
	seen := make(map[int64]struct{}, 5000)
	var last int64
	for i := 0; i < 5000; i++ {
		id := sf.GenerateID()
		assert.Greater(t, id, last)
		last = id
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, 5000)

	_, err = NewSnowflake(32, 0)
	assert.Error(t, err)
}

func TestGetMysqlDsn(t *testing.T) {
	dsn := GetMysqlDsn(config.Mysql{Username: "root", Password: "pw", Addr: "127.0.0.1:3306", Database: "viewtube"})
	assert.Equal(t, "root:pw@tcp(127.0.0.1:3306)/viewtube?charset=utf8mb4&parseTime=True&loc=Local", dsn)
}
