package web

// Text is interface copy that is not part of the content catalog.
type Text struct {
	AboutHeading       string
	DesignHeading      string
	DevelopmentHeading string
	ContactHeading     string

	MyWork         string
	GetInTouch     string
	ViewProject    string
	BackToProjects string

	CaseStudyNotFound string
	CaseStudyMissing  string
}

var DefaultText = Text{
	AboutHeading:       "About Me",
	DesignHeading:      "Graphic Design",
	DevelopmentHeading: "Development",
	ContactHeading:     "Contact Me",

	MyWork:         "My Work",
	GetInTouch:     "Get In Touch",
	ViewProject:    "View Project",
	BackToProjects: "Back to Projects",

	CaseStudyNotFound: "Case Study Not Found",
	CaseStudyMissing: `The case study you're looking for doesn't exist yet. It may still be in
	production, or the link that brought you here is out of date.`,
}
