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

package database

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var defaultRegistry = newModelRegistry()

// SQLModel is a table created by the base migration. Referenced tables need
// a lower Priority than the tables pointing at them.
type SQLModel interface {
	Instance() interface{}
	Priority() int
}

// ModelRegistry stores SQL models and exposes them in a deterministic order.
type ModelRegistry interface {
	Register(model SQLModel)
	Models() []SQLModel
}

type modelRegistry struct {
	models []SQLModel
	mutex  sync.RWMutex
}

func newModelRegistry() ModelRegistry {
	return &modelRegistry{}
}

func (r *modelRegistry) Register(model SQLModel) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.models = append(r.models, model)
}

func (r *modelRegistry) Models() []SQLModel {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]SQLModel, len(r.models))
	copy(result, r.models)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Priority() < result[j].Priority()
	})
	return result
}

// ModelAdapter pairs a bun model pointer with its creation priority.
type ModelAdapter struct {
	instance interface{}
	priority int
}

// NewModelAdapter wraps a struct pointer and priority into an SQLModel.
func NewModelAdapter(instance interface{}, priority int) SQLModel {
	return &ModelAdapter{instance: instance, priority: priority}
}

func (a *ModelAdapter) Instance() interface{} { return a.instance }

func (a *ModelAdapter) Priority() int { return a.priority }

// GetRegisteredModels returns every registered model by ascending priority.
func GetRegisteredModels() []SQLModel {
	return defaultRegistry.Models()
}

// RegisteredModel adds a model to the default registry.
func RegisteredModel(model SQLModel) {
	defaultRegistry.Register(model)
}

// RegisteredModelInstances returns the model pointers in creation order.
func RegisteredModelInstances() []interface{} {
	models := GetRegisteredModels()
	instances := make([]interface{}, len(models))
	for i, model := range models {
		instances[i] = model.Instance()
	}
	return instances
}

// CheckCreationOrder reports every foreign key whose referenced table would be
// created after, or together with, the table pointing at it. tableOf maps a
// model instance to its table name. Constraints naming unregistered tables and
// self references are ignored.
func CheckCreationOrder(models []SQLModel, constraints []ForeignKeyConstraint, tableOf func(interface{}) string) error {
	priority := make(map[string]int, len(models))
	for _, model := range models {
		priority[tableOf(model.Instance())] = model.Priority()
	}

	var errs []error
	for _, fk := range constraints {
		if fk.Table == fk.ReferenceTable {
			continue
		}
		child, ok := priority[fk.Table]
		if !ok {
			continue
		}
		parent, ok := priority[fk.ReferenceTable]
		if !ok {
			continue
		}
		if parent >= child {
			errs = append(errs, fmt.Errorf("table %s (priority %d) references %s (priority %d), which must have a lower priority",
				fk.Table, child, fk.ReferenceTable, parent))
		}
	}
	return errors.Join(errs...)
}
