package vdom

import "strings"

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Identity attributes

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// Lang sets the lang attribute.
func Lang(lang string) Attr { return attr("lang", lang) }

// Data creates a data-* attribute.
// Example: Data("theme", "dark") → data-theme="dark"
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Key sets the reconciliation key.
func Key(key string) Attr { return attr("key", key) }

// Custom sets an arbitrary attribute.
func Custom(key string, value any) Attr { return attr(key, value) }

// Link and resource attributes

// Href sets the href attribute.
func Href(url string) Attr { return attr("href", url) }

// Rel sets the rel attribute.
func Rel(rel string) Attr { return attr("rel", rel) }

// Hreflang sets the hreflang attribute.
func Hreflang(lang string) Attr { return attr("hreflang", lang) }

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// Src sets the src attribute.
func Src(url string) Attr { return attr("src", url) }

// SizesAttr sets the sizes attribute.
func SizesAttr(sizes string) Attr { return attr("sizes", sizes) }

// Media sets the media attribute.
func Media(query string) Attr { return attr("media", query) }

// CrossOrigin sets the crossorigin attribute.
func CrossOrigin(mode string) Attr { return attr("crossorigin", mode) }

// Integrity sets the integrity attribute.
func Integrity(hash string) Attr { return attr("integrity", hash) }

// Target sets the target attribute.
func Target(target string) Attr { return attr("target", target) }

// Metadata attributes

// Name sets the name attribute.
func Name(name string) Attr { return attr("name", name) }

// Content sets the content attribute.
func Content(content string) Attr { return attr("content", content) }

// Charset sets the charset attribute.
func Charset(charset string) Attr { return attr("charset", charset) }

// Property sets the property attribute (OpenGraph).
func Property(property string) Attr { return attr("property", property) }

// HTTPEquiv sets the http-equiv attribute.
func HTTPEquiv(value string) Attr { return attr("http-equiv", value) }

// Script attributes

// Defer_ sets the defer attribute for script elements.
func Defer_() Attr { return attr("defer", true) }

// Async sets the async attribute for script elements.
func Async() Attr { return attr("async", true) }

// Nonce sets the nonce attribute.
func Nonce(nonce string) Attr { return attr("nonce", nonce) }

// DangerouslySetInnerHTML sets raw inner HTML for the element.
func DangerouslySetInnerHTML(html string) Attr { return attr("dangerouslySetInnerHTML", html) }

// OnLoad attaches a load handler.
func OnLoad(handler any) EventHandler { return EventHandler{Event: "onload", Handler: handler} }
