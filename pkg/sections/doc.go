// Package sections renders the landing page.
//
// Every section is a pure function from content to a vdom tree. The only
// request-dependent inputs, the viewer and the cart count, are resolved by
// the caller through explicit providers and passed in as a Visitor.
package sections
