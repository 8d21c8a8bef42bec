package common

import "fmt"

const headerTemplate = `//
// This file was generated by mtlgen %s. Do not edit.
//
`

// FileHeader returns the comment block placed at the top of every generated
// Swift file. It carries no timestamp so regenerating unchanged input is a
// no-op.
func FileHeader() (string, error) {
	version, err := GetVersion()
	if err != nil {
		return "", fmt.Errorf("get version: %w", err)
	}
	return fmt.Sprintf(headerTemplate, version), nil
}
