package main

import "time"

// DefaultShutdownTimeout bounds graceful shutdown of the serve command.
const DefaultShutdownTimeout = 10 * time.Second

// Valid edit sources for the edit command.
var validSources = []string{"human-dashboard", "human-chat", "ai-regeneration", "system"}
