// Package chatsnap captures conversation transcripts from third-party chat
// page markup. It classifies page nodes into role-tagged turns, coordinates
// the capture across isolated execution contexts via asynchronous message
// passing, and exports the result as Markdown, clean JSON, or clipboard-ready
// rich-text HTML.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, bus/, rod/).
package chatsnap
