// Copyright (c) 2026 Danmu. All rights reserved.

package task

import "errors"

// ErrAborted is returned by a [ProgressCallback] once the task's owner has
// called [Engine.Abort]; a [Func] should return it unwrapped so the engine
// records the task as FAILED with an "aborted by user" description.
var ErrAborted = errors.New("task: aborted by user")

// ErrNotFound is returned when an operation targets an unknown task id.
var ErrNotFound = errors.New("task: not found")
