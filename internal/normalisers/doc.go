// Package normalisers provides implementations of the Normaliser interface
// for the document formats the SharePoint connector downloads. Each
// normaliser knows how to extract plain text from one family of file
// extensions.
//
// Normalisers are registered with the Registry at startup; the connector
// selects one by file extension.
package normalisers
