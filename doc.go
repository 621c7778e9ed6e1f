/*
 * doc.go, part of gonb.
 *
 * Copyright 2026 The gonb Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

/*Package nb is the root package of gonb, the non-bonded (Coulomb + Lennard-Jones) energy engine.
It contains the interfaces through which the engine sees molecules, spaces and switching functions,
the small value types shared by all the subpackages, and the errors the library produces.



	**gonb Capabilities**


    Selects atoms of a molecule, cut group by cut group, in a compact
	way (package selection).

    Keeps, for each molecule in a forcefield, an immutable snapshot of the
	coordinates, charges and LJ parameters of the selected atoms, and
	describes changes between snapshots as deltas, which can be
	composed (package ffmol).

    Computes Coulomb and LJ energies between cut groups and within them,
	with geometric or arithmetic combining rules, periodic or infinite
	spaces and smooth cutoffs (packages clj, space, switching).

    Keeps the total energy of a set of molecules up to date while molecules
	are added, moved, re-parametrized or removed, choosing between applying
	only the changes or resumming everything (package ff).

    Saves and restores the state of a forcefield in a versioned, compressed
	binary format, optionally in an embedded database (packages nbio, store).

    Reads systems from YAML files, and scans energies along displacements,
	with tables and plots (packages system, profile, and the gonb command).



Internal units are Angstrom, elementary charges and kcal/mol.*/
package nb
