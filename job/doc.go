// Package job defines generation jobs, their artifacts, and the storage
// contracts the workflow engine writes through.
//
// A job moves pending -> processing -> completed|failed. Terminal jobs are
// frozen: stores reject every further write with ErrTerminal, so a late
// progress update can never overwrite a finished job.
package job
