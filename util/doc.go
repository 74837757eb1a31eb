// Package util holds small string helpers shared by the appenders and the
// configuration loader.
package util
