// Package model defines the domain objects produced from Posterous responses.
//
// An Object is a record with a fixed Kind (site, post, comment, media, image,
// tag, user) and an open set of named attributes. Attribute values are
// tagged: text, integer, boolean, timestamp, nested object or list. Absence
// is explicit, Get reports it instead of failing:
//
//	if title, ok := post.Text("title"); ok {
//		fmt.Println(title)
//	}
//
// Objects built by the parser keep a reference to the API that produced them,
// so a site can list its own tags and an edited post can be committed back:
//
//	post.Set("title", model.Text("New title"))
//	updated, err := post.Commit(ctx)
package model
