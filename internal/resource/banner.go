// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package resource

import "time"

// BannerKind is the style of a banner.
type BannerKind string

// Banner kinds
const (
	BannerSuccess BannerKind = "success"
	BannerError   BannerKind = "error"
	BannerInfo    BannerKind = "info"
)

// DefaultDismissDelay is how long a success banner stays visible.
const DefaultDismissDelay = 3 * time.Second

// Banner is a transient message shown above a view. A zero Dismiss keeps
// the banner until the user closes it.
type Banner struct {
	Kind    BannerKind    `json:"kind"`
	Message string        `json:"message"`
	Dismiss time.Duration `json:"dismiss"`
}

// SuccessBanner returns a banner that clears itself after delay.
func SuccessBanner(msg string, delay time.Duration) Banner {
	if delay <= 0 {
		delay = DefaultDismissDelay
	}
	return Banner{Kind: BannerSuccess, Message: msg, Dismiss: delay}
}

// ErrorBanner returns a banner that stays until dismissed.
func ErrorBanner(msg string) Banner {
	return Banner{Kind: BannerError, Message: msg}
}

// IsZero reports whether there is nothing to show.
func (b Banner) IsZero() bool {
	return b.Message == ""
}

// DismissMillis returns the auto-dismiss delay in milliseconds.
func (b Banner) DismissMillis() int64 {
	return b.Dismiss.Milliseconds()
}
