// Package domain defines the core business entities of the service: the User
// account and its Role. It holds validation rules that apply regardless of
// how users are stored or exposed.
package domain
