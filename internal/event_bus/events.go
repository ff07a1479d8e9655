package event_bus

// ScheduleUpdated is published after the authoritative schedule lists were
// persisted. It carries no payload: subscribers re-fetch the full lists.
const ScheduleUpdated EventType = "schedule.updated"

// FeedUpdated is published after a remote feed refresh produced new data.
const FeedUpdated EventType = "feed.updated"

// BoardRotated is published when the announcement rotation advanced a page.
const BoardRotated EventType = "board.page.rotated"
