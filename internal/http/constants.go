package httpx

// CurrentPage constants define the page identifiers used in templates and navigation.
const (
	PageHome        = "home"
	PageLogin       = "login"
	PageRegister    = "register"
	PageVideojuegos = "videojuegos"
	PageNotFound    = "not-found"
)

// Browser routes.
const (
	RouteHome        = "/"
	RouteLogin       = "/login"
	RouteRegister    = "/register"
	RouteVideojuegos = "/videojuegos"
	RouteLogout      = "/logout"
)

// Template paths used for loading templates in tests and production.
const (
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
)

// Form field names shared by the login and register forms.
const (
	fieldEmail    = "email"
	fieldPassword = "password"
)

const errMsgFixBelow = "Revisa los campos marcados."

//nolint:gochecknoglobals // static read-only lookup for templates
var contentTemplates = map[string]string{
	PageHome:        "home-content",
	PageLogin:       "login-content",
	PageRegister:    "register-content",
	PageVideojuegos: "videojuegos-content",
	PageNotFound:    "not-found-content",
}

// ContentTemplateMap returns the mapping from CurrentPage to template name.
func ContentTemplateMap() map[string]string { return contentTemplates }

// ContentTemplateFor returns the content template for the given CurrentPage.
// Falls back to home-content for unknown pages.
func ContentTemplateFor(currentPage string) string {
	if name, ok := ContentTemplateMap()[currentPage]; ok {
		return name
	}
	return "home-content"
}
