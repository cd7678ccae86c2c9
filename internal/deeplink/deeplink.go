// Package deeplink builds WhatsApp and dialer URIs and hands them to the OS.
package deeplink

import (
	"net/url"
	"strings"
)

const whatsAppBase = "https://wa.me/"

// WhatsAppURL opens a chat with phone. The number is used as given.
func WhatsAppURL(phone string) string {
	return whatsAppBase + phone
}

// CallURL dials phone.
func CallURL(phone string) string {
	return "tel:" + phone
}

// AdminMessageURL opens a chat with admin prefilled with text.
func AdminMessageURL(admin, text string) string {
	return whatsAppBase + admin + "?text=" + EncodeComponent(text)
}

// EncodeComponent percent-encodes s like encodeURIComponent: spaces become
// %20 and only A-Z a-z 0-9 - _ . ! ~ * ' ( ) stay literal.
func EncodeComponent(s string) string {
	e := url.QueryEscape(s)
	if !strings.ContainsAny(e, "+%") {
		return e
	}
	r := strings.NewReplacer("+", "%20", "%21", "!", "%27", "'", "%28", "(", "%29", ")", "%2A", "*", "%7E", "~")
	return r.Replace(e)
}
