//go:build rp2040 && hwpwm

package main

func init() { useHWPWM = true }
