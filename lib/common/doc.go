// Package common holds the logging setup shared by the fcache command and
// its library packages.
package common
