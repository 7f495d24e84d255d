package model

// Package model defines domain data structures shared across the app: the task
// view rendered by the UI, lifecycle states, target descriptors with their
// format classification, and the tagged field updates workers emit.
