// Package news ingests RSS feeds on a schedule: it downloads entries,
// summarizes them with a model, and stores each article once by URL.
package news
