// Package utils provides a collection of helper functions for common tasks,
// such as file handling, regex group extraction, and type conversion.
// It is designed to simplify repetitive operations and ensure consistency across the application.
package utils
