// Package membersearch provides service facades over the member/team store:
// a generic CRUD Service, the MemberService searches and demo seeding.
package membersearch
