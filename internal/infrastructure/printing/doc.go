// Package printing renders supplier-facing documents to PDF.
//
// A TemplateEngine executes an embedded html/template against the document
// data and a PDFRenderer turns the HTML into PDF. ChromedpRenderer drives a
// headless Chrome over the DevTools protocol, either launched locally or
// reached through a remote websocket URL.
package printing
