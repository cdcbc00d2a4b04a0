// Package pages holds the server-rendered pages of the galaxy UI. Components are generated
// from the .templ sources with `templ generate`.
package pages
