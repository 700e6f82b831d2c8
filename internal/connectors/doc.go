// Package connectors provides implementations of the source ports for the
// external systems Sitrep aggregates. Each connector knows how to fetch
// and normalise one system's data (ServiceNow, Salesforce, SharePoint).
//
// Connectors resolve their credentials per fetch and never return Go
// errors: every failure collapses into the result's ok/error fields.
package connectors
