/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package models

import (
	"github.com/uptrace/bun"
)

// UserColumns maps user JSON names to columns for partial updates.
var UserColumns = map[string]string{
	"firstName": "first_name",
	"lastName":  "last_name",
	"isAdmin":   "is_admin",
}

type User struct {
	bun.BaseModel `bun:"table:users"`

	Username  string `bun:"username,pk,type:varchar(25)" json:"username"`
	Password  string `bun:"password,notnull" json:"-"`
	FirstName string `bun:"first_name,notnull" json:"firstName"`
	LastName  string `bun:"last_name,notnull" json:"lastName"`
	Email     string `bun:"email,notnull" json:"email"`
	IsAdmin   bool   `bun:"is_admin,notnull" json:"isAdmin"`
}

// UserDetail is a user with the ids of the jobs applied to.
type UserDetail struct {
	*User
	Applications []int64 `json:"applications"`
}

type Application struct {
	bun.BaseModel `bun:"table:applications"`

	Username string `bun:"username,pk,type:varchar(25)" json:"username"`
	JobID    int64  `bun:"job_id,pk" json:"jobId"`
}

// NewUser is the admin payload for creating a user.
type NewUser struct {
	Username  string `json:"username" validate:"required,min=1,max=25"`
	Password  string `json:"password" validate:"required,min=5,maxbytes=72"`
	FirstName string `json:"firstName" validate:"required,min=1,max=30"`
	LastName  string `json:"lastName" validate:"required,min=1,max=30"`
	Email     string `json:"email" validate:"required,email,max=60"`
	IsAdmin   bool   `json:"isAdmin"`
}

// Registration is the self-service signup payload. It never grants admin.
type Registration struct {
	Username  string `json:"username" validate:"required,min=1,max=25"`
	Password  string `json:"password" validate:"required,min=5,maxbytes=72"`
	FirstName string `json:"firstName" validate:"required,min=1,max=30"`
	LastName  string `json:"lastName" validate:"required,min=1,max=30"`
	Email     string `json:"email" validate:"required,email,max=60"`
}

func (r *Registration) NewUser() *NewUser {
	return &NewUser{
		Username:  r.Username,
		Password:  r.Password,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
	}
}

type UserPatch struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1,max=30"`
	LastName  *string `json:"lastName" validate:"omitempty,min=1,max=30"`
	Password  *string `json:"password" validate:"omitempty,min=5,maxbytes=72"`
	Email     *string `json:"email" validate:"omitempty,email,max=60"`
	IsAdmin   *bool   `json:"isAdmin"`
}

type Login struct {
	Username string `json:"username" validate:"required,min=1,max=25"`
	Password string `json:"password" validate:"required,min=1"`
}
