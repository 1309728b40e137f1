package testutil

import (
	"os"
	"strconv"

	"github.com/stretchr/testify/suite"
)

type BaseSuite struct {
	suite.Suite
}

func (s *BaseSuite) StrEnv(env string, defaultValue string) string {
	strValue := os.Getenv(env)
	if strValue == "" {
		return defaultValue
	}

	return strValue
}

func (s *BaseSuite) IntEnv(env string, defaultValue int) int {
	strValue := os.Getenv(env)
	if strValue == "" {
		return defaultValue
	}

	i, err := strconv.Atoi(strValue)
	s.Require().NoError(err)
	return i
}

// Body returns n deterministic non-zero bytes, so a test body can never be
// mistaken for the goodbye marker or for zeroed padding.
func (s *BaseSuite) Body(n int) []byte {
	body := make([]byte, n)
	for i := range body {
		body[i] = byte(i%251 + 1)
	}
	return body
}
