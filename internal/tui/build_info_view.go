// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"strings"

	"github.com/MKhiriev/go-todo-keeper/models"
)

func renderBuildInfoWindow(info models.AppBuildInfo) string {
	var b strings.Builder

	b.WriteString("Application: go-todo-keeper\n")
	b.WriteString(info.String())

	return overlayBoxStyle.Render(renderPage("ABOUT", b.String(), "esc: back"))
}
