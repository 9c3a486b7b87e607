package handlers

import (
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/wparra-sinapsiscode/frioservice-sub001/internal/calendar"
	"github.com/wparra-sinapsiscode/frioservice-sub001/internal/constants"
)

// spanishMonths maps Go month values to the Spanish display names the UI uses
var spanishMonths = map[time.Month]string{
	time.January:   "Enero",
	time.February:  "Febrero",
	time.March:     "Marzo",
	time.April:     "Abril",
	time.May:       "Mayo",
	time.June:      "Junio",
	time.July:      "Julio",
	time.August:    "Agosto",
	time.September: "Septiembre",
	time.October:   "Octubre",
	time.November:  "Noviembre",
	time.December:  "Diciembre",
}

// CalendarHandler manages the calendar page
type CalendarHandler struct {
	*BaseHandler
}

// NewCalendarHandler creates a new calendar page handler
func NewCalendarHandler(baseHandler *BaseHandler) *CalendarHandler {
	return &CalendarHandler{BaseHandler: baseHandler}
}

// RegisterRoutes registers calendar page routes
func (h *CalendarHandler) RegisterRoutes() {
	http.HandleFunc("/", h.handleCalendar)
	http.HandleFunc("/calendar", h.handleCalendar)
}

// DayCellView is a day cell joined with its filtered events for rendering
type DayCellView struct {
	calendar.DayCell
	DateKey string
	Events  []calendar.Event
}

// CalendarPageData contains data for the calendar page template
type CalendarPageData struct {
	BasePageData
	View        calendar.ViewMode
	Date        string
	Title       string
	Weeks       [][]DayCellView
	DayEvents   []calendar.Event
	Criteria    calendar.Criteria
	Scheduled   bool
	Corrective  bool
	Technicians []string
	PrevURL     string
	NextURL     string
	ViewURLs    map[string]string
	ExportURL   string
	Unscheduled int
}

// handleCalendar shows the calendar page for the requested navigation state
func (h *CalendarHandler) handleCalendar(w http.ResponseWriter, r *http.Request) {
	handlerLogger := h.logger.With().Str("handler", "handleCalendar").Logger()

	if r.URL.Path != "/" && r.URL.Path != "/calendar" {
		http.NotFound(w, r)
		return
	}

	now := time.Now().In(h.DisplayLocation())
	ctrl := h.ControllerFromRequest(r, now)

	// Navigation actions transition the state machine and redirect to the
	// canonical URL of the successor state
	if action := r.URL.Query().Get("action"); action != "" {
		switch action {
		case "prev":
			ctrl = ctrl.Prev()
		case "next":
			ctrl = ctrl.Next()
		default:
			handlerLogger.Warn().Str("action", action).Msg("Ignoring unknown navigation action")
		}
		http.Redirect(w, r, ControllerURL("/calendar", ctrl), http.StatusSeeOther)
		return
	}
	if toggle := r.URL.Query().Get("toggle"); toggle != "" {
		ctrl = ctrl.ToggleType(constants.TypeCategory(toggle))
		http.Redirect(w, r, ControllerURL("/calendar", ctrl), http.StatusSeeOther)
		return
	}

	handlerLogger.Debug().
		Str("view", string(ctrl.View)).
		Int("year", ctrl.Year).
		Int("month", int(ctrl.Month)).
		Int("day", ctrl.Day).
		Msg("Rendering calendar")

	events := calendar.Filter(calendar.MapEvents(h.Provider.Services(), h.DisplayLocation()), ctrl.Criteria)

	data := CalendarPageData{
		BasePageData: h.NewBasePageData(r),
		View:         ctrl.View,
		Date:         ctrl.Date().Format("2006-01-02"),
		Title:        h.pageTitle(ctrl),
		Criteria:     ctrl.Criteria,
		Scheduled:    ctrl.Criteria.HasType(constants.CategoryScheduled),
		Corrective:   ctrl.Criteria.HasType(constants.CategoryCorrective),
		Technicians:  h.technicianNames(),
		PrevURL:      ControllerURL("/calendar", ctrl) + "&action=prev",
		NextURL:      ControllerURL("/calendar", ctrl) + "&action=next",
		ViewURLs:     h.viewURLs(ctrl),
		ExportURL:    ControllerURL("/calendar/export.ics", ctrl),
		Unscheduled:  countUnscheduled(events),
	}

	switch ctrl.View {
	case calendar.ViewDay:
		data.DayEvents = sortByTime(calendar.EventsForDate(events, ctrl.Date()))
	default:
		data.Weeks = joinCells(ctrl.Grid(now), events)
	}

	h.RenderTemplate(w, "calendar.html", data)
}

// ControllerFromRequest rebuilds the navigation state machine from the request
// query. Missing or malformed parameters fall back to the initial state for
// now's date and the configured default view.
func (h *BaseHandler) ControllerFromRequest(r *http.Request, now time.Time) calendar.Controller {
	q := r.URL.Query()

	ctrl := calendar.NewController(now)
	ctrl = ctrl.SetView(calendar.ViewMode(h.RuntimeConfig.Display().DefaultView))

	if d, err := time.Parse("2006-01-02", q.Get("date")); err == nil {
		ctrl.Year, ctrl.Month, ctrl.Day = d.Date()
	}
	ctrl = ctrl.SetView(calendar.ViewMode(q.Get("view")))

	// The types parameter may repeat (checkbox form) or hold a comma list
	// (canonical URLs). Its presence, even empty, replaces the default set.
	if q.Has("types") {
		ctrl.Criteria.Types = nil
		for _, value := range q["types"] {
			for _, raw := range strings.Split(value, ",") {
				if cat, err := constants.ParseTypeCategory(strings.TrimSpace(raw)); err == nil && !ctrl.Criteria.HasType(cat) {
					ctrl.Criteria.Types = append(ctrl.Criteria.Types, cat)
				}
			}
		}
	}
	if v := q.Get("technician"); v != "" {
		ctrl = ctrl.SetTechnician(v)
	}
	if v := q.Get("status"); v != "" {
		ctrl = ctrl.SetStatus(v)
	}
	if v := q.Get("priority"); v != "" {
		ctrl = ctrl.SetPriority(v)
	}
	return ctrl
}

// ControllerURL builds the canonical URL for a navigation state
func ControllerURL(path string, ctrl calendar.Controller) string {
	q := url.Values{}
	q.Set("view", string(ctrl.View))
	q.Set("date", ctrl.Date().Format("2006-01-02"))

	cats := make([]string, 0, len(ctrl.Criteria.Types))
	for _, cat := range ctrl.Criteria.Types {
		cats = append(cats, string(cat))
	}
	q.Set("types", strings.Join(cats, ","))

	if ctrl.Criteria.Technician != calendar.FilterAll {
		q.Set("technician", ctrl.Criteria.Technician)
	}
	if ctrl.Criteria.Status != calendar.FilterAll {
		q.Set("status", ctrl.Criteria.Status)
	}
	if ctrl.Criteria.Priority != calendar.FilterAll {
		q.Set("priority", ctrl.Criteria.Priority)
	}

	return path + "?" + q.Encode()
}

func (h *CalendarHandler) viewURLs(ctrl calendar.Controller) map[string]string {
	urls := make(map[string]string, 3)
	for _, mode := range []calendar.ViewMode{calendar.ViewMonth, calendar.ViewWeek, calendar.ViewDay} {
		urls[string(mode)] = ControllerURL("/calendar", ctrl.SetView(mode))
	}
	return urls
}

func (h *CalendarHandler) pageTitle(ctrl calendar.Controller) string {
	d := ctrl.Date()
	switch ctrl.View {
	case calendar.ViewDay:
		return d.Format("02") + " de " + spanishMonths[d.Month()] + " " + d.Format("2006")
	case calendar.ViewWeek:
		sunday := d.AddDate(0, 0, -int(d.Weekday()))
		saturday := sunday.AddDate(0, 0, 6)
		return "Semana del " + sunday.Format("02/01") + " al " + saturday.Format("02/01/2006")
	default:
		return spanishMonths[ctrl.Month] + " " + d.Format("2006")
	}
}

func (h *BaseHandler) technicianNames() []string {
	roster := h.Provider.Technicians()
	names := make([]string, 0, len(roster))
	for _, t := range roster {
		if name := t.DisplayName(); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// joinCells attaches each cell's filtered events and chunks the grid into
// template-ready weeks
func joinCells(cells []calendar.DayCell, events []calendar.Event) [][]DayCellView {
	buckets := calendar.BucketByDate(events)

	var weeks [][]DayCellView
	for _, row := range calendar.Weeks(cells) {
		week := make([]DayCellView, 0, len(row))
		for _, cell := range row {
			key := cell.Date.Format("2006-01-02")
			week = append(week, DayCellView{
				DayCell: cell,
				DateKey: key,
				Events:  sortByTime(buckets[key]),
			})
		}
		weeks = append(weeks, week)
	}
	return weeks
}

// sortByTime orders a day's events by their display time. The "Sin hora"
// label sorts after every HH:MM value, which is the intended placement.
func sortByTime(events []calendar.Event) []calendar.Event {
	out := append([]calendar.Event(nil), events...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time < out[j].Time
	})
	return out
}

func countUnscheduled(events []calendar.Event) int {
	n := 0
	for _, e := range events {
		if e.Date == "" {
			n++
		}
	}
	return n
}
