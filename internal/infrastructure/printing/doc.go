// Package printing turns a committed sale into a receipt document.
//
// This package contains:
// - TemplateEngine, which lays out the receipt HTML from ReceiptData
// - PDFRenderer and its chromedp implementation for HTML to PDF
// - ReceiptStorage and the local FileSystemStorage implementation
// - Viewer, which hands a written receipt to an external program
//
// Every failure is reported as a *RenderError carrying one of the ErrCode
// constants, so callers can tell a rendering problem from a commit failure.
package printing
