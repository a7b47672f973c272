// Copyright 2026 Veridian Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package search answers similarity queries over the ingested chunk index.
//
// A query is embedded with the same model used at ingestion time and matched
// against stored chunk vectors by cosine distance. Distances are presented to
// callers as similarity percentages. Infrastructure failures surface as a
// sentinel result rather than an error, keeping interactive use graceful.
package search
