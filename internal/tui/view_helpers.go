package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-todo-keeper/models"
)

const uiDivider = "──────────────────────────────────────────────────────"

func renderPage(title, data, hotKeys string) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString("  ")
	b.WriteString(uiDivider)
	b.WriteString("\n\n")

	if strings.TrimSpace(data) != "" {
		lines := strings.Split(data, "\n")
		for _, line := range lines {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	} else {
		b.WriteString("  -\n")
	}

	b.WriteString("\n")
	b.WriteString("  ")
	b.WriteString(uiDivider)
	b.WriteString("\n")

	if strings.TrimSpace(hotKeys) != "" {
		b.WriteString("  ")
		b.WriteString(helpStyle.Render(hotKeys))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("  ctrl+c: quit"))

	return b.String()
}

func valueOrDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}

func fitText(v string, max int) string {
	r := []rune(v)
	if max <= 0 || len(r) <= max {
		return v
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

func formatDue(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	local := t.Local()
	if local.Hour() == 0 && local.Minute() == 0 && local.Second() == 0 {
		return local.Format(time.DateOnly)
	}
	return local.Format("2006-01-02 15:04")
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// RenderTodo formats a single todo as a labelled block.
func RenderTodo(todo models.Todo) string {
	var b strings.Builder

	title := todo.Title
	if todo.Completed {
		title = doneStyle.Render(title)
	}

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}

	row("ID", fmt.Sprintf("%d", todo.ID))
	row("Title", title)
	row("Description", valueOrDash(todo.Description))
	row("Label", valueOrDash(todo.Label))
	row("Priority", priorityStyle(todo.Priority).Render(string(todo.Priority)))
	row("Progress", string(todo.Progress))
	row("Due", formatDue(todo.DueDate))
	row("Completed", checkbox(todo.Completed))
	row("Updated", todo.UpdatedAt.Local().Format(time.DateTime))

	return strings.TrimRight(b.String(), "\n")
}

// RenderTodoList formats todos one per line, for non-interactive output.
func RenderTodoList(todos []models.Todo) string {
	if len(todos) == 0 {
		return helpStyle.Render("no todos")
	}

	var b strings.Builder
	for i, todo := range todos {
		if i > 0 {
			b.WriteString("\n")
		}
		title := fitText(todo.Title, 40)
		if todo.Completed {
			title = doneStyle.Render(title)
		}
		fmt.Fprintf(&b, "%s %5d  %-40s  %s  %s",
			checkbox(todo.Completed),
			todo.ID,
			title,
			priorityStyle(todo.Priority).Render(fmt.Sprintf("%-6s", todo.Priority)),
			formatDue(todo.DueDate),
		)
	}
	return b.String()
}

// RenderFiltered formats the overdue, today and upcoming sections.
func RenderFiltered(filtered models.FilteredTodos) string {
	sections := []struct {
		title string
		todos []models.Todo
	}{
		{"Overdue", filtered.OverDue},
		{"Today", filtered.Today},
		{"Upcoming", filtered.Upcoming},
	}

	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		parts = append(parts, titleStyle.Render(fmt.Sprintf("%s (%d)", s.title, len(s.todos)))+"\n"+RenderTodoList(s.todos))
	}
	return strings.Join(parts, "\n\n")
}

// RenderUser formats a user profile.
func RenderUser(user models.User) string {
	var b strings.Builder
	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}

	row("ID", fmt.Sprintf("%d", user.ID))
	row("Username", user.Username)
	row("Email", user.Email)
	row("Full name", user.FullName)
	row("Avatar", valueOrDash(user.Avatar))

	return strings.TrimRight(b.String(), "\n")
}

// RenderError formats a user-facing error line.
func RenderError(msg string) string {
	return errorStyle.Render("error: " + msg)
}
