package content

// Lesson ids with special behavior.
const (
	// DiagnosticLessonID is the calibration lesson that assigns a path.
	DiagnosticLessonID = "Start"
	// MasterLessonID is the unit's final lesson, served by generated
	// challenge problems instead of the static pool.
	MasterLessonID = "CheckProgress"
)

// WorkbookSuffix marks workbook variants of a lesson id ("11.1_WB").
const WorkbookSuffix = "_WB"

// LessonKind distinguishes the three lesson roles on the map.
type LessonKind int

const (
	KindTopic LessonKind = iota
	KindDiagnostic
	KindMaster
)

// Lesson is a node on the lesson map.
type Lesson struct {
	ID          string
	Kind        LessonKind
	Title       Text
	Description Text
	// Prerequisites must all be completed before the lesson unlocks.
	Prerequisites []string
}

var catalog = []Lesson{
	{
		ID:          DiagnosticLessonID,
		Kind:        KindDiagnostic,
		Title:       Text{MK: "Почеток", EN: "Getting Started", SQ: "Fillimi", TR: "Başlangıç"},
		Description: Text{MK: "Дијагностички тест", EN: "Diagnostic check", SQ: "Test diagnostikues", TR: "Tanılama testi"},
	},
	{
		ID:            "11.1",
		Title:         Text{MK: "Линеарни Функции", EN: "Linear Functions", SQ: "Funksionet Lineare", TR: "Doğrusal Fonksiyonlar"},
		Description:   Text{MK: "Формули и замена", EN: "Formulas & substitution", SQ: "Formulat dhe zëvendësimi", TR: "Formüller ve yerleştirme"},
		Prerequisites: []string{DiagnosticLessonID},
	},
	{
		ID:            "11.2",
		Title:         Text{MK: "Цртање Графици", EN: "Plotting Graphs", SQ: "Vizatimi i Grafikëve", TR: "Grafik Çizimi"},
		Description:   Text{MK: "Цртање линии од табели", EN: "Drawing lines from tables", SQ: "Vizatimi i vijave nga tabelat", TR: "Tablolardan çizgi çizme"},
		Prerequisites: []string{"11.1"},
	},
	{
		ID:            "11.3",
		Title:         Text{MK: "Градиент и Отсечок", EN: "Gradient & Intercept", SQ: "Gradienti dhe Ndërprerja", TR: "Eğim ve Kesişim"},
		Description:   Text{MK: "Разбирање на y = mx + c", EN: "Understanding y = mx + c", SQ: "Kuptimi i y = mx + c", TR: "y = mx + c Anlayışı"},
		Prerequisites: []string{"11.2"},
	},
	{
		ID:            "11.4",
		Title:         Text{MK: "Толкување Графици", EN: "Interpreting Graphs", SQ: "Interpretimi i Grafikëve", TR: "Grafikleri Yorumlama"},
		Description:   Text{MK: "Примери од реалниот живот", EN: "Real-world examples", SQ: "Shembuj nga bota reale", TR: "Gerçek dünya örnekleri"},
		Prerequisites: []string{"11.3"},
	},
	{
		ID:            MasterLessonID,
		Kind:          KindMaster,
		Title:         Text{MK: "Евалуација", EN: "Assessment", SQ: "Vlerësimi", TR: "Değerlendirme"},
		Description:   Text{MK: "Мастер Задача - Unit 11", EN: "Unit 11 Master Task", SQ: "Detyrë Master - Unit 11", TR: "Ünite 11 Usta Görevi"},
		Prerequisites: []string{"11.1", "11.2", "11.3", "11.4"},
	},
}

var lessonIndex = func() map[string]int {
	m := make(map[string]int, len(catalog))
	for i, l := range catalog {
		m[l.ID] = i
	}
	return m
}()

// Lessons returns the lesson map in display order.
func Lessons() []Lesson {
	out := make([]Lesson, len(catalog))
	copy(out, catalog)
	return out
}

// LessonByID returns the lesson with the given id.
func LessonByID(id string) (Lesson, bool) {
	i, ok := lessonIndex[id]
	if !ok {
		return Lesson{}, false
	}
	return catalog[i], true
}

// Unlocked reports whether every prerequisite of the lesson is in completed.
// Unknown lessons are never unlocked.
func Unlocked(id string, completed []string) bool {
	l, ok := LessonByID(id)
	if !ok {
		return false
	}
	done := make(map[string]bool, len(completed))
	for _, c := range completed {
		done[c] = true
	}
	for _, p := range l.Prerequisites {
		if !done[p] {
			return false
		}
	}
	return true
}

// MatchesLesson reports whether a problem's lesson id belongs to lessonID:
// an exact match, or the workbook variant. The diagnostic lesson matches
// exactly only.
func MatchesLesson(problemLessonID, lessonID string) bool {
	if problemLessonID == lessonID {
		return true
	}
	if lessonID == DiagnosticLessonID {
		return false
	}
	return problemLessonID == lessonID+WorkbookSuffix
}
