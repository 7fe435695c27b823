package models

type DigestItem struct {
	Title    string
	URL      string
	Keywords []string
	Context  string
}

type Email struct {
	To      string
	Subject string
	Body    string
}
