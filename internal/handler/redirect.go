package handler

import (
	"net/http"
	"net/url"
	"strings"
)

const (
	pageLogin     = "/login"
	pageDashboard = "/dashboard"
	pageAdmin     = "/admin"
	pageSettings  = "/settings"
	pageMessages  = "/messages"
	pageOrder     = "/submit-order"
	pageReward    = "/claim-reward"
)

func redirect(w http.ResponseWriter, r *http.Request, location string) {
	http.Redirect(w, r, location, http.StatusFound)
}

func withError(page, msg string) string {
	return page + "?error=" + encodeURIComponent(msg)
}

func withSuccess(page, msg string) string {
	return page + "?success=" + encodeURIComponent(msg)
}

// Unreserved in encodeURIComponent but escaped by url.QueryEscape.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeURIComponent escapes s the way browsers do for a query component,
// so spaces become %20 rather than '+'.
func encodeURIComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}
