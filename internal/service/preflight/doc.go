// Package preflight verifies the runtime environment before any download starts.
// It checks that the converter (ffmpeg) and the downloader (yt-dlp) are
// present on PATH, and attempts to install yt-dlp when it is missing. A missing converter is a fatal precondition: conversion cannot
// proceed without it, so nothing else is allowed to run.
package preflight
