package db

type Area struct {
	ID   int64
	Name string
}

type Problem struct {
	ID             int64
	AreaID         int64
	Sector         string
	Name           string
	NameNormalized string
	Grade          string
}

type ExternalLink struct {
	ID        int64
	ProblemID int64
	Label     string
	URL       string
}
