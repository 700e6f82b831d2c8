// Package domain defines the core business entities for Sitrep.
//
// The fundamental types are:
//
//   - Sources: the per-request aggregate of all source results
//   - TicketResult / PipelineResult / DocumentResult: one result per source
//   - Brief: the response envelope handed to driving adapters
//   - RawFile / ExtractedText: the document extraction boundary
//
// Domain sits at the centre of the hexagon: every other package imports
// it and it imports nothing but the standard library. Keep it free of
// adapter concerns (HTTP, SOAP, OAuth, file formats) so the brief
// composition rules stay testable in isolation.
package domain
