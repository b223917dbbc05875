package routes

import (
	"fmt"
	"net/http"
)

// PrivacyPolicyHandler serves the relay's privacy notice
func PrivacyPolicyHandler(operator string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")

		html := `<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>UnMasked Privacy</title>
</head>
<body>
	<h1>UnMasked Privacy</h1>
	<p>Confessions are uploaded by the pool operator (%s). Stored records hold only the text, a timestamp and reaction counts; your account is never written next to what you post.</p>
	<p>Your account id is used to join pools and to check that you are a member before a confession is relayed.</p>
	<p>Reactions are counted on your device only.</p>
</body>
</html>
`
		fmt.Fprintf(w, html, operator)
	}
}
