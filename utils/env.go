package utils

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadEnv loads a .env file if present. It will not override already
// existing env vars.
func LoadEnv() {
	_ = godotenv.Load()
}

func ReadStringEnvVar(name string) (string, error) {
	value := os.Getenv(name)
	if value == "" {
		return "", fmt.Errorf("%s not set", name)
	}
	return value, nil
}

func ReadStringEnvVarOr(name string, or string) string {
	value, err := ReadStringEnvVar(name)
	if err != nil {
		value = or
	}
	return value
}

func ReadIntEnvVar(name string) (int, error) {
	valueStr, err := ReadStringEnvVar(name)
	if err != nil {
		return 0, err
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("could not convert %s to a number: %v", name, err)
	}
	return value, nil
}

func ReadIntEnvVarOr(name string, or int) int {
	value, err := ReadIntEnvVar(name)
	if err != nil {
		value = or
	}
	return value
}

func ReadBoolEnvVarOr(name string, or bool) bool {
	valueStr, err := ReadStringEnvVar(name)
	if err != nil {
		return or
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return or
	}
	return value
}
