// Package postpipe wires a MonitoredQueue into a small posting pipeline:
// a Poster owns shared resources (a logger, buffer pools) and
// manufactures PostingContexts, each bound to one simulated broker
// Session and one outbound queue. It is the one collaborator in this
// module that calls MonitoredQueue.PushBack directly; stats and sessions
// here feed that call site, while StagingBuffer is a standalone batching
// buffer that PostingContext does not use.
package postpipe
