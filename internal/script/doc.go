// Package script classifies text by Unicode writing system and compares
// the result against the script a language is expected to use.
//
// Classification counts code points inside a fixed registry of script
// blocks (Arabic plus the major Indic scripts). Text dominated by none
// of them, including ASCII and punctuation, falls back to "latin".
package script
